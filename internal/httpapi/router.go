// Package httpapi exposes the discovery HTTP surface: a health check and a
// joinable-room listing, built on gorilla/mux the way bocha-io-garnet's
// internal/backend/server.go wires its REST routes, with permissive CORS
// so any browser-based client can call it directly.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"castlerush/internal/registry"
)

// NewRouter builds the discovery router backed by reg.
func NewRouter(reg *registry.Registry) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/health", handleHealth).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/rooms", handleRooms(reg)).Methods(http.MethodGet, http.MethodOptions)
	// mux applies Use() middleware only to matched routes, so the fallback
	// is wrapped explicitly to carry the same CORS headers.
	router.NotFoundHandler = corsMiddleware(http.HandlerFunc(handleNotFound))

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "timestamp": time.Now().UTC()})
}

type roomListing struct {
	RoomID          string    `json:"roomId"`
	HostName        string    `json:"hostName"`
	HostDeckPreview []string  `json:"hostDeckPreview"`
	CreatedAt       time.Time `json:"createdAt"`
}

func handleRooms(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		joinable := reg.ListJoinable()
		out := make([]roomListing, 0, len(joinable))
		for _, m := range joinable {
			out = append(out, roomListing{
				RoomID:          m.RoomID,
				HostName:        m.HostName,
				HostDeckPreview: m.HostDeckPreview,
				CreatedAt:       m.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"rooms": out})
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}
