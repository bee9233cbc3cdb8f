package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Piyushgeek-gupta/Code-Alchemists/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin фильтруется CORS-слоем выше, здесь пропускаем всех.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeLeaderboard подписывает клиента на live-обновления таблицы
// результатов: общей или конкретного конкурса (?contest_id=).
func (h *WebSocketHandler) ServeLeaderboard(w http.ResponseWriter, r *http.Request) {
	var contestID *int
	if raw := r.URL.Query().Get("contest_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			http.Error(w, "invalid contest_id", http.StatusBadRequest)
			return
		}
		contestID = &id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		log.Printf("Failed to upgrade leaderboard connection: %v", err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.LeaderboardRoom(contestID),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
