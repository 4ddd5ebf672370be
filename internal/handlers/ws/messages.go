package ws

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
)

// MessageAuthenticate is the handshake event carrying the shared secret.
type MessageAuthenticate struct {
	APIKey string `json:"apiKey"`
}

func (msg *MessageAuthenticate) GetType() string {
	return "authenticate"
}

// Process validates the key against the gate. Success transitions the
// connection to the authenticated state and acknowledges; failure pushes an
// error event and leaves the connection open and unauthenticated.
func (msg *MessageAuthenticate) Process(ctx *MessageContext) error {
	if !ctx.Gate.Authenticate(msg.APIKey) {
		log.Printf("[ws] connection %s failed authentication", ctx.ConnID)
		return SendError(ctx.Conn, "auth_failed", "Falha na autenticação", "")
	}

	if err := ctx.Hub.Authenticate(ctx.ConnID); err != nil {
		return err
	}

	log.Printf("[ws] connection %s authenticated", ctx.ConnID)
	return ctx.Conn.WriteJSON(AuthenticatedEvent{
		Type:    "authenticated",
		Success: true,
		Message: "Autenticado com sucesso",
	})
}

// MessageSubscribeGroup subscribes the connection to a group and pushes the
// current group view as an initial snapshot.
type MessageSubscribeGroup struct {
	GroupID string `json:"grupoId"`
}

func (msg *MessageSubscribeGroup) GetType() string {
	return "subscribe-group"
}

func (msg *MessageSubscribeGroup) Process(ctx *MessageContext) error {
	if msg.GroupID == "" {
		return SendError(ctx.Conn, "missing_group_id", "grupoId é obrigatório", "")
	}

	err := ctx.Hub.Subscribe(ctx.ConnID, msg.GroupID)
	if errors.Is(err, ErrNotAuthenticated) {
		return SendError(ctx.Conn, "not_authenticated", "Não autenticado", "")
	}
	if err != nil {
		return err
	}

	log.Printf("[ws] connection %s subscribed to group %s", ctx.ConnID, msg.GroupID)

	view, err := ctx.Groups.AssembleGroupView(context.Background(), msg.GroupID, nil)
	if errors.Is(err, service.ErrGroupNotFound) {
		return SendError(ctx.Conn, "group_not_found", "Grupo "+msg.GroupID+" não encontrado", "")
	}
	if err != nil {
		return err
	}

	return ctx.Conn.WriteJSON(GroupDataEvent{
		Type: "group-data",
		Payload: GroupDataPayload{
			Type:      "initial",
			GroupID:   msg.GroupID,
			Data:      view,
			Timestamp: time.Now().UTC(),
		},
	})
}

// MessagePing is a keepalive ping from the client.
type MessagePing struct{}

func (msg *MessagePing) GetType() string {
	return "ping"
}

func (msg *MessagePing) Process(ctx *MessageContext) error {
	return ctx.Conn.WriteJSON(map[string]string{"type": "pong"})
}

// AuthenticatedEvent acknowledges a successful handshake.
type AuthenticatedEvent struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GroupDataPayload is one group snapshot tagged with its group id.
type GroupDataPayload struct {
	Type      string            `json:"type"`
	GroupID   string            `json:"grupoId"`
	Data      *models.GroupView `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
}

// GroupDataEvent pushes a group snapshot to a subscriber.
type GroupDataEvent struct {
	Type    string           `json:"type"`
	Payload GroupDataPayload `json:"payload"`
}
