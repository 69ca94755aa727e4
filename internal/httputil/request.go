package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps request bodies. Question trees run to dozens of nodes,
// so 1MB leaves generous headroom while keeping abuse cheap to reject.
const maxBodyBytes = 1 << 20

// ParseJSON decodes the request body into dest. Unknown fields are allowed;
// authoring clients send extra editor-only keys that validation downstream
// simply ignores.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
