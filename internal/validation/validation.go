package validation

import (
	"strconv"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/service"
)

// Level filter defaults used when only one bound is supplied.
const (
	DefaultLevelMin = 1
	DefaultLevelMax = 99
)

// ParseLevelRange parses the optional levelMin/levelMax query values into an
// inclusive range. Both empty means no filter (nil). A single bound defaults
// the other to 1 or 99. Non-integer input is rejected.
func ParseLevelRange(minStr, maxStr string) (*models.LevelRange, error) {
	if minStr == "" && maxStr == "" {
		return nil, nil
	}

	levels := &models.LevelRange{Min: DefaultLevelMin, Max: DefaultLevelMax}
	if minStr != "" {
		min, err := strconv.Atoi(minStr)
		if err != nil {
			return nil, err
		}
		levels.Min = min
	}
	if maxStr != "" {
		max, err := strconv.Atoi(maxStr)
		if err != nil {
			return nil, err
		}
		levels.Max = max
	}
	return levels, nil
}

// NormalizeRankingMetric maps the tipo query value onto a known ranking
// metric, defaulting to member count.
func NormalizeRankingMetric(tipo string) string {
	switch tipo {
	case service.MetricContributions, service.MetricLevel:
		return tipo
	default:
		return service.MetricMembers
	}
}

// ParseLimit parses a result limit, applying the default when absent or
// invalid and clamping to [1, max].
func ParseLimit(s string, def, max int) int {
	limit := def
	if s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
