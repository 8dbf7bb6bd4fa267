// Package httputil centralizes JSON response rendering so every handler
// produces the same envelope.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

// WriteJSON renders v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// errors omit the description so persistence detail never reaches clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
