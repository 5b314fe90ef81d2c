package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// codedErrorResponse adds a stable machine-readable code to an error body.
func codedErrorResponse(code, msg string) map[string]string {
	return map[string]string{"error": msg, "code": code}
}

// MethodNotAllowed answers requests whose route exists under another method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse("Not found"))
}
