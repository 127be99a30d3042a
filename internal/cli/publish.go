package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/client"
	"github.com/mithrel/scholia/internal/editor"
	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/pkg/api"
)

func newPublishCmd() *cobra.Command {
	var (
		d           api.Draft
		tags        []string
		content     string
		contentFile string
		image       string
		useEditor   bool
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a new article",
		Long: "Publish a new article from flags, a content file or an $EDITOR draft.\n" +
			"The article is sent as one multipart request with a bearer token from the configured auth provider.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)

			list := editor.NewTagList()
			for _, t := range tags {
				list.Commit(t)
			}
			d.Tags = list.Items()
			d.Content = content
			if contentFile != "" {
				b, err := readContent(cmd.InOrStdin(), contentFile)
				if err != nil {
					return err
				}
				d.Content = string(b)
			}
			if useEditor {
				edited, err := editDraft(d)
				if err != nil {
					return err
				}
				d = edited
			}
			if d.Title == "" {
				d.Title = editor.FirstLine(d.Content)
			}
			if image != "" {
				att, err := loadImage(image)
				if err != nil {
					return err
				}
				d.Image = att
			}

			if dryRun {
				body, ctype, err := client.EncodeDraft(d)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "would POST %d bytes (%s)\n", len(body), ctype)
				return format.WriteJSON(cmd.OutOrStdout(), d, true)
			}

			resp, err := app.Client.CreateArticle(cmd.Context(), d)
			if err != nil {
				return err
			}
			if err := writeResponse(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Post published!")
			return nil
		},
	}
	cmd.Flags().StringVar(&d.Title, "title", "", "article title (defaults to the first line of the content)")
	cmd.Flags().StringVar(&d.Author, "author", "", "author name")
	cmd.Flags().StringVar(&d.Institution, "institution", "", "author institution")
	cmd.Flags().StringVar(&d.Abstract, "abstract", "", "short abstract shown in listings")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "tag to attach (repeatable)")
	cmd.Flags().StringVar(&content, "content", "", "markdown body")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read the markdown body from a file (- for stdin)")
	cmd.Flags().StringVar(&image, "image", "", "path to a cover image")
	cmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "compose the article in $EDITOR")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the draft instead of publishing it")
	return cmd
}

func readContent(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func loadImage(path string) (*api.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &api.Attachment{Name: filepath.Base(path), Data: data}, nil
}

func editDraft(d api.Draft) (api.Draft, error) {
	path, err := editor.PathForDraft(time.Now().Format("20060102-150405"))
	if err != nil {
		return d, err
	}
	defer os.Remove(path)
	initial := []byte(editor.ComposeDraft(d))
	final, changed, err := editor.OpenAt(path, initial)
	if err != nil {
		return d, err
	}
	if !changed {
		return d, errors.New("draft unchanged; nothing to publish")
	}
	out := editor.ParseDraft(string(final))
	out.Image = d.Image
	return out, nil
}

// writeResponse pretty prints the server reply when it is JSON and copies it otherwise.
func writeResponse(w io.Writer, resp json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp, "", "  "); err != nil {
		_, err = w.Write(resp)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
