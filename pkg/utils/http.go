// Package utils holds small HTTP response helpers shared by the admin
// surface.
package utils

import (
	"encoding/json"
	"net/http"
)

// JSONWrite writes v as JSON with the given status code.
func JSONWrite(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}
