package httpx

import (
	"encoding/json"
	"net/http"
)

// Every API response is one of two envelopes: {"data": ...} optionally with
// {"meta": ...}, or {"errors": ...}.

type dataEnvelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Errors any `json:"errors"`
}

// Meta carries pagination info for list responses. Kept as a struct with
// room to grow (the contract only pins total and current_page).
type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		// best-effort error response; avoid writing partial JSON
		http.Error(w, `{"errors":{"message":["internal server error"]}}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// Data writes {"data": ...}.
func Data(w http.ResponseWriter, status int, data any) {
	write(w, status, dataEnvelope{Data: data})
}

// DataMeta writes {"data": ..., "meta": ...} for paginated lists.
func DataMeta(w http.ResponseWriter, status int, data any, meta Meta) {
	write(w, status, dataEnvelope{Data: data, Meta: meta})
}

// Errors writes {"errors": ...} where errs is a field -> messages map.
func Errors(w http.ResponseWriter, status int, errs any) {
	write(w, status, errorEnvelope{Errors: errs})
}

// Error writes the single-message form {"errors":{"message":[msg]}}.
func Error(w http.ResponseWriter, status int, msg string) {
	Errors(w, status, map[string][]string{"message": {msg}})
}
