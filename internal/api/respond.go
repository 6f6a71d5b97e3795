package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Response messages shared with clients.
const (
	MsgTitleDescriptionRequired = "Title and description are required."
	MsgTaskIDRequired           = "Task ID is required"
	MsgTaskNotFound             = "Task not found"
	MsgInternalError            = "Internal server error"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// messageBody is the error payload: {"message": "..."}.
type messageBody struct {
	Message string `json:"message"`
}

// decodeBody decodes a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON data: %w", err)
	}
	return nil
}

// isForm reports whether the request carries a form-encoded body
func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.Contains(ct, "application/x-www-form-urlencoded") || isMultipart(r)
}

// isMultipart reports whether the body is multipart/form-data
func isMultipart(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseForm fills r.Form from a urlencoded or multipart body.
func parseForm(r *http.Request) error {
	if isMultipart(r) {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}

// isHTMX reports whether the request was issued by htmx
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage writes a JSON error response
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

// writeInternalError logs err and answers with the generic 500 body.
// The cause never reaches the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	logger.ErrorContext(r.Context(), "request failed",
		"op", op,
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeMessage(w, http.StatusInternalServerError, MsgInternalError)
}

// writeHTMX writes an HTML response
func writeHTMX(w http.ResponseWriter, status int, content string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, content)
}
