// Package envelope holds the {success, data?, error?} shape every API response uses.
package envelope

import (
	"encoding/json"
	"log"
	"net/http"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{Success: true, Data: data})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Success: false, Error: message})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}

type headerTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *headerTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *headerTracker) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

func (w *headerTracker) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Recover turns a panic in next into a 500 envelope. When next already started its response,
// the panic is only logged.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &headerTracker{ResponseWriter: w}
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("ERROR: panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				if tw.wroteHeader {
					return
				}
				WriteError(tw, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(tw, r)
	})
}
