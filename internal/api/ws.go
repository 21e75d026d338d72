package api

import (
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// WebSocketHandler pushes the conversation state after every change.
// Clients only read; anything they send is discarded.
func (h *APIHandler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	states, unsubscribe := h.chatService.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			data, err := sonic.Marshal(newHistoryResponse(state))
			if err != nil {
				log.Printf("Error encoding state: %v", err)
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("WebSocket write failed: %v", err)
				return
			}
		}
	}
}
