package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/scholia/pkg/api"
)

// TSV columns: id, likes, read_time, title, author, tags
var headerLine = "id\tlikes\tread_time\ttitle\tauthor\ttags\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// joinTags joins with commas; no spaces.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func WritePlainArticles(w io.Writer, articles []api.ArticleSummary, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, a := range articles {
		line := fmt.Sprintf("%d\t%d\t%s\t%s\t%s\t%s\n",
			a.ID, a.Likes, esc(api.ReadTimeLabel(a.ReadTime)), esc(a.Title), esc(a.Author), esc(joinTags(a.Tags)))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

// WritePlainArticle prints the metadata as aligned key/value lines followed by
// the body paragraphs exactly as received.
func WritePlainArticle(w io.Writer, d api.ArticleDetail, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		fields := [][2]string{
			{"id", fmt.Sprint(d.ID)},
			{"title", d.Title},
			{"author", d.Author},
			{"institution", d.Institution},
			{"published", d.PublishDate},
			{"read_time", api.ReadTimeLabel(d.ReadTime)},
			{"likes", fmt.Sprint(d.Likes)},
			{"comments", fmt.Sprint(d.Comments)},
			{"tags", joinTags(d.Tags)},
		}
		for _, f := range fields {
			_, _ = fmt.Fprintf(tw, "%s:\t%s\n", f[0], esc(f[1]))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, _ = io.WriteString(w, "\n")
	}
	for _, p := range Paragraphs(d.Content) {
		if _, err := io.WriteString(w, p+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Paragraphs splits an article body on newlines. Paragraphs are kept verbatim.
func Paragraphs(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
