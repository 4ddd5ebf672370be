package handlers

import (
	"log"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/auth"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/handlers/ws"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type WebSocketHandler struct {
	gate   *auth.Gate
	groups *service.GroupService
	hub    *ws.Hub
}

func NewWebSocketHandler(gate *auth.Gate, groups *service.GroupService) *WebSocketHandler {
	return &WebSocketHandler{
		gate:   gate,
		groups: groups,
		hub:    ws.NewHub(),
	}
}

// GetHub returns the hub instance (useful for reporting connection counts)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// HandleWebSocket runs the read loop for one connection. The connection
// starts unauthenticated; the authenticate event is the in-channel
// handshake. Events on one connection are processed in arrival order.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	connID := uuid.NewString()

	h.hub.Register(connID, c)
	defer h.hub.Unregister(connID)

	log.Printf("[ws] connection %s opened from %s", connID, c.RemoteAddr())

	ctx := &ws.MessageContext{
		ConnID: connID,
		Conn:   c,
		Hub:    h.hub,
		Gate:   h.gate,
		Groups: h.groups,
	}

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("[ws] read error on connection %s: %v", connID, err)
			break
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("[ws] invalid message on connection %s: %v", connID, err)
			ws.SendError(c, "invalid_message", "Formato de mensagem inválido", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("[ws] error processing %s on connection %s: %v", msg.GetType(), connID, err)
			ws.SendError(c, "processing_failed", "Falha ao processar mensagem", err.Error())
		}
	}

	log.Printf("[ws] connection %s closed", connID)
}
