package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jlkcz/auditparser/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades to WebSocket and streams classified events to
// the client.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Subscribe to the hub for classified records.
	events := s.hub.Subscribe()

	// Read pump — detect client disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	// Write pump — send events as JSON.
	for rec := range events {
		row := rec.Row()
		msg := struct {
			Kind      model.Kind `json:"kind"`
			Profile   string     `json:"profile"`
			Operation string     `json:"operation"`
			Content   string     `json:"content"`
			Apparmor  string     `json:"apparmor"`
			Time      int64      `json:"time"`
			Line      string     `json:"line"`
		}{
			Kind:      rec.Kind(),
			Profile:   rec.Profile(),
			Operation: row.Operation,
			Content:   row.Content,
			Apparmor:  row.Apparmor,
			Time:      row.Time,
			Line:      rec.Render(),
		}

		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket write failed: %v", err)
			return
		}
	}
}
