package format

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes v (an article, a collection or a publish result) as one JSON document.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
