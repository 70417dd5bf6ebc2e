// Package ws adapts the room orchestrator's typed command surface to a
// single websocket connection per session: inbound JSON is decoded and
// dispatched to a room.Room, and every broadcast the room emits is written
// back out over the same connection. It deliberately carries no game logic
// of its own, the way the teacher's internal/net/ws sits in front of
// server.Hub.
package ws

import (
	"context"
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"castlerush/internal/ids"
	"castlerush/internal/room"
	"castlerush/logging"
	loggingnetwork "castlerush/logging/network"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RoomManager resolves the room a new connection should join, the same
// "find-or-create" responsibility the teacher's hub fills for player ids.
type RoomManager interface {
	JoinOrCreate(ctx context.Context) *room.Room
}

// Handler upgrades incoming HTTP requests to websocket connections and runs
// one session loop per connection.
type Handler struct {
	manager   RoomManager
	logger    *log.Logger
	publisher logging.Publisher
	upgrader  websocket.Upgrader
}

// NewHandler constructs a Handler bound to manager. A nil logger falls back
// to log.Default(), matching the teacher's internal/net/ws.NewHandler. A nil
// publisher is replaced with a no-op one so connection events are simply
// dropped rather than requiring every caller to wire one up.
func NewHandler(manager RoomManager, logger *log.Logger, publisher logging.Publisher) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Handler{
		manager:   manager,
		logger:    logger,
		publisher: publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// inboundMessage is the union of every client-originated message shape
// described in spec §6.
type inboundMessage struct {
	Type             string   `json:"type"`
	SessionID        string   `json:"sessionId"`
	ExternalPlayerID string   `json:"externalPlayerId"`
	DisplayName      string   `json:"displayName"`
	Deck             []string `json:"deck"`
	UnitID           string   `json:"unitId"`
	Speed            int      `json:"speed"`
}

// joinAck is the direct reply to a join message, carrying the session's own
// assigned side/cost/deck view. View is typed any because room.PlayerView
// (like every room wire struct) is marshaled structurally — the handler
// never needs to name its type, only to forward it.
type joinAck struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	View      any    `json:"view"`
}

func errorMessageFor(err error) any {
	if cmdErr, ok := err.(*room.CommandError); ok {
		return struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}{Type: "error", Code: cmdErr.Code, Message: cmdErr.Message}
	}
	return struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Type: "error", Code: "INTERNAL", Message: err.Error()}
}

// Handle is the http.HandlerFunc that upgrades a connection and runs its
// session loop until the client disconnects.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("ws: upgrade failed: %v", err)
		return
	}

	sess := newSession(conn)
	defer sess.close()

	ctx := r.Context()
	rm := h.manager.JoinOrCreate(ctx)

	sessionID := ids.NewSessionID()
	actor := logging.Actor(logging.EntityKindPlayer, sessionID)

	loggingnetwork.ConnectionEstablished(ctx, h.publisher, 0, actor, loggingnetwork.ConnectionPayload{
		RemoteAddr: r.RemoteAddr,
	}, nil)
	closeReason := "client_closed"
	defer func() {
		loggingnetwork.ConnectionClosed(context.Background(), h.publisher, 0, actor, loggingnetwork.ConnectionPayload{
			RemoteAddr: r.RemoteAddr,
			Reason:     closeReason,
		}, nil)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	go func() {
		for range ping.C {
			if err := sess.writePing(); err != nil {
				return
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = "read_error"
			rm.Leave(sessionID)
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("ws: discarding malformed message from %s: %v", sessionID, err)
			loggingnetwork.MalformedMessage(ctx, h.publisher, 0, actor, loggingnetwork.MalformedMessagePayload{
				Reason: err.Error(),
			}, nil)
			continue
		}

		switch msg.Type {
		case "join":
			view, err := rm.Join(ctx, sessionID, msg.ExternalPlayerID, msg.DisplayName, msg.Deck, sess)
			if err != nil {
				sess.Send(errorMessageFor(err))
				continue
			}
			sess.Send(joinAck{Type: "join_ack", SessionID: sessionID, View: view})
		case "ready":
			if err := rm.Ready(ctx, sessionID); err != nil {
				sess.Send(errorMessageFor(err))
			}
		case "summon":
			if err := rm.Summon(ctx, sessionID, msg.UnitID); err != nil {
				sess.Send(errorMessageFor(err))
			}
		case "upgrade_cost":
			if err := rm.UpgradeCost(ctx, sessionID); err != nil {
				sess.Send(errorMessageFor(err))
			}
		case "vote_speed":
			if err := rm.VoteSpeed(ctx, sessionID, msg.Speed); err != nil {
				sess.Send(errorMessageFor(err))
			}
		default:
			h.logger.Printf("ws: unknown message type %q from %s", msg.Type, sessionID)
		}
	}
}
