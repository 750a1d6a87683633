package handler

import (
	"net/http"
)

// HandleHome answers the root path with a plain-text liveness marker.
// GET /
func HandleHome(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Root")
}
