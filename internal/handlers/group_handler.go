package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/cache"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/httpx"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const searchLimitMax = 50

type GroupHandler struct {
	groups *service.GroupService
	cache  *cache.GroupCache
}

func NewGroupHandler(groups *service.GroupService, groupCache *cache.GroupCache) *GroupHandler {
	return &GroupHandler{groups: groups, cache: groupCache}
}

// GetGroup returns the assembled view of one group, optionally filtered by
// the levelMin/levelMax bounds.
func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID := c.Params("groupId")

	levels, err := validation.ParseLevelRange(c.Query("levelMin"), c.Query("levelMax"))
	if err != nil {
		return httpx.BadRequest(c, "Parâmetros levelMin/levelMax devem ser números inteiros")
	}

	log.Printf("[api] group request: %s", groupID)

	if view, ok := h.cache.GetGroupView(groupID, levels); ok {
		return c.JSON(groupViewResponse(view))
	}

	view, err := h.groups.AssembleGroupView(c.Context(), groupID, levels)
	if errors.Is(err, service.ErrGroupNotFound) {
		return httpx.NotFound(c, fmt.Sprintf("Grupo %s não encontrado", groupID))
	}
	if err != nil {
		log.Printf("[api] group %s failed: %v", groupID, err)
		return httpx.Internal(c)
	}

	if err := h.cache.SetGroupView(groupID, levels, view); err != nil {
		log.Printf("[api] failed to cache group %s: %v", groupID, err)
	}

	return c.JSON(groupViewResponse(view))
}

// SearchGroups lists lightweight summaries of groups whose name contains
// the query text.
func (h *GroupHandler) SearchGroups(c *fiber.Ctx) error {
	name := c.Query("name")
	limit := validation.ParseLimit(c.Query("limit"), 10, searchLimitMax)

	groups, err := h.groups.SearchGroups(c.Context(), name, limit)
	if errors.Is(err, service.ErrMissingQuery) {
		return httpx.BadRequest(c, `Parâmetro "name" é obrigatório`)
	}
	if err != nil {
		log.Printf("[api] search %q failed: %v", name, err)
		return httpx.Internal(c)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"query":      name,
		"resultados": len(groups),
		"grupos":     groups,
		"timestamp":  time.Now().UTC(),
	})
}

func groupViewResponse(view *models.GroupView) fiber.Map {
	return fiber.Map{
		"success":      true,
		"grupo":        view.Group,
		"cargos":       view.Roles,
		"membros":      view.Members,
		"estatisticas": view.Statistics,
		"timestamp":    view.Timestamp,
	}
}
