package repository

import (
	"context"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
)

// RankMetric selects the group field a ranking is ordered by.
type RankMetric string

const (
	RankByMembers       RankMetric = "totalMembros"
	RankByContributions RankMetric = "totalContribuicoes"
	RankByLevel         RankMetric = "nivel"
)

// GroupRepositoryInterface defines the read-only contract for group documents.
type GroupRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*models.Group, error)
	SearchByName(ctx context.Context, name string, limit int) ([]models.Group, error)
	Rank(ctx context.Context, metric RankMetric, limit int) ([]models.Group, error)
}

// MembershipRepositoryInterface defines the read-only contract for
// membership documents. All queries are restricted to active memberships.
type MembershipRepositoryInterface interface {
	FindByGroup(ctx context.Context, groupID string, limit int) ([]models.Membership, error)
	FindOne(ctx context.Context, groupID, userID string) (*models.Membership, error)
	FindByMember(ctx context.Context, userID string) ([]models.Membership, error)
}

// RoleRepositoryInterface defines the read-only contract for the role set of
// a group, system tiers included.
type RoleRepositoryInterface interface {
	FindByGroup(ctx context.Context, groupID string) ([]models.Role, error)
}
