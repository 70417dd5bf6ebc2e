package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// session wraps one websocket connection with a write mutex so the room's
// broadcast goroutine and this connection's own ping loop never race on the
// same socket — the same guard the teacher's subscription type provides
// around gorilla/websocket's single-writer requirement.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newSession(conn *websocket.Conn) *session {
	return &session{conn: conn}
}

// Send implements room.Sender: marshal message to JSON and write it as a
// single text frame.
func (s *session) Send(message any) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	s.writeMessage(websocket.TextMessage, data)
}

func (s *session) writePing() error {
	return s.writeMessage(websocket.PingMessage, nil)
}

func (s *session) writeMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.Close()
}
