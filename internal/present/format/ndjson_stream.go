package format

import (
	"encoding/json"
	"io"
)

// NDJSONStreamWriter writes records as NDJSON as soon as they are produced,
// e.g. one publish result per imported draft.
type NDJSONStreamWriter struct {
	enc   *json.Encoder
	count int
}

// NewNDJSONStreamWriter creates a streaming NDJSON writer.
func NewNDJSONStreamWriter(w io.Writer) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: json.NewEncoder(w)}
}

// Write emits one record.
func (nw *NDJSONStreamWriter) Write(v any) error {
	if err := nw.enc.Encode(v); err != nil {
		return err
	}
	nw.count++
	return nil
}

// Count reports how many records were written.
func (nw *NDJSONStreamWriter) Count() int { return nw.count }
