package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/jsonstore/pkg/types"
)

// encodeDocument renders doc as JSON followed by a newline. indent is the
// number of spaces per level; zero writes compact JSON.
func encodeDocument(doc *types.Document, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeDocument parses a stored document. Empty input is an empty table.
// Every parse failure wraps ErrMalformedDocument.
func decodeDocument(data []byte) (*types.Document, error) {
	doc := &types.Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		if errors.Is(err, types.ErrMalformedDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrMalformedDocument, err)
	}
	return doc, nil
}
