package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type ctxKey string

// CtxSessionKey carries the authenticated *auth.Session through the
// request context.
const CtxSessionKey ctxKey = "session"

// maxBodyBytes caps request bodies. Nothing the dashboards send comes
// close to 1 MiB.
const maxBodyBytes = 1 << 20

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// JSONMessage writes {"message": "..."} with a given status.
func JSONMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// DecodeJSON parses the request body into v, rejecting unknown fields,
// oversized bodies, and trailing garbage. On failure it writes the
// error response itself; callers just return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			JSONError(w, http.StatusBadRequest, "empty request body")
		case errors.As(err, &maxErr):
			JSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
		default:
			JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		}
		return err
	}

	// A second decode should hit EOF; anything else means the body held
	// more than one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		err = errors.New("unexpected data after JSON body")
		JSONError(w, http.StatusBadRequest, "request body must contain a single JSON object")
		return err
	}

	return nil
}
