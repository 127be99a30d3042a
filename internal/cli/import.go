package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/scholia/internal/editor"
	"github.com/mithrel/scholia/internal/present/format"
	"github.com/mithrel/scholia/internal/wire"
	"github.com/mithrel/scholia/pkg/api"
)

// importRecord is one draft in an import file. ImagePath is resolved
// relative to the import file.
type importRecord struct {
	api.Draft
	ImagePath string `json:"image_path,omitempty"`
}

// importResult is written as one NDJSON line per record.
type importResult struct {
	Index    int             `json:"index"`
	Title    string          `json:"title"`
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

func newImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Publish drafts from JSON (array or NDJSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required")
			}
			app := getApp(cmd)

			var in io.Reader = cmd.InOrStdin()
			baseDir := "."
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
				baseDir = filepath.Dir(file)
			}

			br := bufio.NewReader(in)
			// Peek first non-space byte to decide array vs NDJSON
			first, err := peekFirstNonSpace(br)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return fmt.Errorf("%s: no drafts", file)
				}
				return err
			}

			dec := json.NewDecoder(br)
			out := format.NewNDJSONStreamWriter(cmd.OutOrStdout())
			published, failed := 0, 0
			publish := func(i int, rec importRecord) error {
				res := importOne(cmd, app, baseDir, i, rec)
				if res.OK {
					published++
				} else {
					failed++
				}
				return out.Write(res)
			}

			if first == '[' {
				var arr []importRecord
				if err := dec.Decode(&arr); err != nil {
					return err
				}
				for i := range arr {
					if err := publish(i, arr[i]); err != nil {
						return err
					}
				}
			} else {
				for i := 0; ; i++ {
					var rec importRecord
					if err := dec.Decode(&rec); err != nil {
						if errors.Is(err, io.EOF) {
							break
						}
						return fmt.Errorf("record %d: %w", i, err)
					}
					if err := publish(i, rec); err != nil {
						return err
					}
				}
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Published: %d\nFailed: %d\n", published, failed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "input JSON file (array or NDJSON, - for stdin)")
	return cmd
}

func importOne(cmd *cobra.Command, app *wire.App, baseDir string, i int, rec importRecord) importResult {
	d := rec.Draft
	res := importResult{Index: i, Title: d.Title}

	tags := editor.NewTagList()
	for _, t := range d.Tags {
		tags.Commit(t)
	}
	d.Tags = tags.Items()
	d.Image = nil
	if rec.ImagePath != "" {
		path := rec.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		att, err := loadImage(path)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		d.Image = att
	}

	resp, err := app.Client.CreateArticle(cmd.Context(), d)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Response = resp
	return res
}

func peekFirstNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		// put it back for the decoder
		if err := r.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}
