package cache

import (
	"fmt"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// GroupViewTTL keeps assembled views hot without hiding membership
	// changes for long.
	GroupViewTTL = 30 * time.Second
	RankingTTL   = 60 * time.Second
)

// GroupCache caches assembled group views and rankings. All operations are
// best-effort and nil-safe; the service runs identically without Redis.
type GroupCache struct {
	redis *RedisCache
}

func NewGroupCache(redis *RedisCache) *GroupCache {
	return &GroupCache{redis: redis}
}

func groupViewKey(groupID string, levels *models.LevelRange) string {
	if levels == nil {
		return fmt.Sprintf("groupview:%s:all", groupID)
	}
	return fmt.Sprintf("groupview:%s:%d-%d", groupID, levels.Min, levels.Max)
}

// GetGroupView returns a cached view for the group and level filter.
func (gc *GroupCache) GetGroupView(groupID string, levels *models.LevelRange) (*models.GroupView, bool) {
	if gc == nil || gc.redis == nil {
		return nil, false
	}

	data, err := gc.redis.Get(groupViewKey(groupID, levels))
	if err != nil || data == nil {
		return nil, false
	}

	var view models.GroupView
	if err := msgpack.Unmarshal(data, &view); err != nil {
		return nil, false
	}
	return &view, true
}

// SetGroupView stores an assembled view.
func (gc *GroupCache) SetGroupView(groupID string, levels *models.LevelRange, view *models.GroupView) error {
	if gc == nil || gc.redis == nil {
		return nil
	}

	data, err := msgpack.Marshal(view)
	if err != nil {
		return err
	}
	return gc.redis.Set(groupViewKey(groupID, levels), data, GroupViewTTL)
}

// GetRanking returns a cached ranking for the metric and limit.
func (gc *GroupCache) GetRanking(metric string, limit int) ([]models.RankedGroup, bool) {
	if gc == nil || gc.redis == nil {
		return nil, false
	}

	data, err := gc.redis.Get(fmt.Sprintf("ranking:%s:%d", metric, limit))
	if err != nil || data == nil {
		return nil, false
	}

	var ranking []models.RankedGroup
	if err := msgpack.Unmarshal(data, &ranking); err != nil {
		return nil, false
	}
	return ranking, true
}

// SetRanking stores a ranking result.
func (gc *GroupCache) SetRanking(metric string, limit int, ranking []models.RankedGroup) error {
	if gc == nil || gc.redis == nil {
		return nil
	}

	data, err := msgpack.Marshal(ranking)
	if err != nil {
		return err
	}
	return gc.redis.Set(fmt.Sprintf("ranking:%s:%d", metric, limit), data, RankingTTL)
}
