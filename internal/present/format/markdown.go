package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/scholia/pkg/api"
)

// RenderOptions selects the glamour style and wrap width.
type RenderOptions struct {
	Style    string
	WordWrap int
}

func (o RenderOptions) renderer() (*glamour.TermRenderer, error) {
	style := o.Style
	if style == "" {
		style = "dracula"
	}
	wrap := o.WordWrap
	if wrap <= 0 {
		wrap = 80
	}
	styleOpt := glamour.WithStandardStyle(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// Markdown renders md with the configured style.
func Markdown(md string, opts RenderOptions) (string, error) {
	r, err := opts.renderer()
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// ArticleHeader is the metadata card shown above an article body.
func ArticleHeader(d api.ArticleDetail) string {
	meta := []string{d.PublishDate}
	if rt := api.ReadTimeLabel(d.ReadTime); rt != "" {
		meta = append(meta, rt)
	}
	tags := make([]string, len(d.Tags))
	for i, t := range d.Tags {
		tags[i] = "`" + t + "`"
	}
	return fmt.Sprintf(`# %s

> **%s** · %s
>
> %s · ♥ %d · 💬 %d

%s

---
`, d.Title, d.Author, d.Institution, strings.Join(meta, " · "), d.Likes, d.Comments, strings.Join(tags, " "))
}

// WritePrettyArticle renders the header card with glamour; the body paragraphs
// are written verbatim, one per block.
func WritePrettyArticle(w io.Writer, d api.ArticleDetail, opts RenderOptions) error {
	head, err := Markdown(ArticleHeader(d), opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, head); err != nil {
		return err
	}
	for _, p := range Paragraphs(d.Content) {
		if _, err := io.WriteString(w, "  "+p+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// WritePrettyArticles renders the listing as a sequence of markdown cards.
func WritePrettyArticles(w io.Writer, articles []api.ArticleSummary, opts RenderOptions) error {
	var b strings.Builder
	for i, a := range articles {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n*%s · %s* — #%d · ♥ %d · %s\n\n%s\n",
			a.Title, a.Author, a.Institution, a.ID, a.Likes, a.PublishDate, a.Abstract)
		if len(a.Tags) > 0 {
			tags := make([]string, len(a.Tags))
			for j, t := range a.Tags {
				tags[j] = "`" + t + "`"
			}
			b.WriteString("\n" + strings.Join(tags, " ") + "\n")
		}
	}
	out, err := Markdown(b.String(), opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// DraftPreview renders an unpublished draft the way it would read once published.
func DraftPreview(d api.Draft, opts RenderOptions) (string, error) {
	var b strings.Builder
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if d.Author != "" || d.Institution != "" {
		fmt.Fprintf(&b, "> **%s** · %s\n\n", d.Author, d.Institution)
	}
	if d.Abstract != "" {
		fmt.Fprintf(&b, "*%s*\n\n", d.Abstract)
	}
	b.WriteString("---\n\n")
	b.WriteString(d.Content)
	return Markdown(b.String(), opts)
}
