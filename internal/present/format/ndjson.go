package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/scholia/pkg/api"
)

// WriteNDJSONArticles writes one article summary per line.
func WriteNDJSONArticles(w io.Writer, articles []api.ArticleSummary) error {
	enc := json.NewEncoder(w)
	for _, a := range articles {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return nil
}
