package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/dukerupert/parlor/internal/room"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidation answers 422 with the reason when err is a
// room.ValidationError and reports whether it did.
func writeValidation(w http.ResponseWriter, err error) bool {
	var verr *room.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, verr.Reason)
	return true
}

// decodeBody fills dst from a JSON body, or from form fields for other
// content types. fields maps form keys to destinations.
func decodeBody(r *http.Request, dst any, fields map[string]*string) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	for key, p := range fields {
		*p = r.PostFormValue(key)
	}
	return nil
}
