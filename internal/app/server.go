package app

import (
	"net/http"

	"castlerush/internal/httpapi"
	"castlerush/internal/net/ws"
	"castlerush/internal/registry"
)

// newDiscoveryRouter combines the httpapi discovery routes with the
// websocket upgrade endpoint into a single handler for cmd/server to serve.
func newDiscoveryRouter(reg *registry.Registry, wsHandler *ws.Handler) http.Handler {
	router := httpapi.NewRouter(reg)
	router.HandleFunc("/ws", wsHandler.Handle)
	return router
}
