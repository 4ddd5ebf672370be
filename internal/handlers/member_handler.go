package handlers

import (
	"errors"
	"log"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/httpx"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	groups *service.GroupService
}

func NewMemberHandler(groups *service.GroupService) *MemberHandler {
	return &MemberHandler{groups: groups}
}

// GetMember returns a member's membership in one group when groupId is
// given, or all their memberships across groups otherwise.
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	memberID := c.Params("memberId")
	groupID := c.Query("groupId")

	view, err := h.groups.ResolveMember(c.Context(), memberID, groupID)
	if errors.Is(err, service.ErrMemberNotFound) {
		return httpx.NotFound(c, "Membro não encontrado neste grupo")
	}
	if err != nil {
		log.Printf("[api] member %s failed: %v", memberID, err)
		return httpx.Internal(c)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"usuarioId":    view.UserID,
		"totalGrupos":  view.TotalGroups,
		"grupos":       view.Groups,
		"estatisticas": view.Statistics,
		"timestamp":    view.Timestamp,
	})
}
