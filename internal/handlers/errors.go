package handlers

import "net/http"

// NotFoundHandler handles unknown routes.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusNotFound, "NOT_FOUND", "The requested resource was not found")
}

// MethodNotAllowedHandler handles unsupported methods on known routes.
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	jsonError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource")
}
