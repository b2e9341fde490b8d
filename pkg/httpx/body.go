package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// maxPeekBytes bounds how much of a body middleware will buffer.
const maxPeekBytes = 1 << 20 // 1 MiB

// PeekJSONField reads a single string field out of a JSON request body and
// restores the body so the handler can still decode it.
func PeekJSONField(r *http.Request, field string) (string, error) {
	if r.Body == nil {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return "", err
	}
	_ = r.Body.Close()

	// Hand the handler a fresh reader over the same bytes.
	r.Body = io.NopCloser(bytes.NewReader(body))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", nil // not a JSON object; nothing to extract
	}

	raw, ok := fields[field]
	if !ok {
		return "", nil
	}

	var val string
	if err := json.Unmarshal(raw, &val); err != nil {
		return "", nil // non-string field
	}
	return val, nil
}
