package handlers

import (
	"log"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/cache"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/httpx"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const rankingLimitMax = 100

type RankingHandler struct {
	groups *service.GroupService
	cache  *cache.GroupCache
}

func NewRankingHandler(groups *service.GroupService, groupCache *cache.GroupCache) *RankingHandler {
	return &RankingHandler{groups: groups, cache: groupCache}
}

// GetRanking returns groups ordered descending by the tipo metric, with
// 1-based positions.
func (h *RankingHandler) GetRanking(c *fiber.Ctx) error {
	tipo := validation.NormalizeRankingMetric(c.Query("tipo"))
	limite := validation.ParseLimit(c.Query("limite"), 10, rankingLimitMax)

	if ranking, ok := h.cache.GetRanking(tipo, limite); ok {
		return c.JSON(rankingResponse(tipo, limite, ranking))
	}

	ranking, err := h.groups.RankGroups(c.Context(), tipo, limite)
	if err != nil {
		log.Printf("[api] ranking %q failed: %v", tipo, err)
		return httpx.Internal(c)
	}

	if err := h.cache.SetRanking(tipo, limite, ranking); err != nil {
		log.Printf("[api] failed to cache ranking %q: %v", tipo, err)
	}

	return c.JSON(rankingResponse(tipo, limite, ranking))
}

func rankingResponse(tipo string, limite int, ranking interface{}) fiber.Map {
	return fiber.Map{
		"success":   true,
		"tipo":      tipo,
		"limite":    limite,
		"ranking":   ranking,
		"timestamp": time.Now().UTC(),
	}
}
