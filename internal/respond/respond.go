package respond

import (
	"encoding/json"
	"net/http"

	"whereabouts/internal/validation"
)

// NotFoundDetail is the body message of every 404 response.
const NotFoundDetail = "Not found."

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteDetail writes an error envelope of the form {"detail": message}.
func WriteDetail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"detail": message})
}

// WriteNotFound writes the standard 404 response.
func WriteNotFound(w http.ResponseWriter) {
	WriteDetail(w, http.StatusNotFound, NotFoundDetail)
}

// WriteFieldErrors writes per-field validation messages as a 400 response.
func WriteFieldErrors(w http.ResponseWriter, errs validation.FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, errs)
}
