// Package fallback produces synthetic group data for when the backing store
// is unreachable. The shapes are fixed so game scripts keep working against
// recognizable placeholder values. Fallback is never used for a genuine
// not-found result.
package fallback

import (
	"fmt"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
)

// Group returns a synthetic group that preserves the requested identifier.
func Group(groupID string) *models.Group {
	short := groupID
	if len(short) > 8 {
		short = short[:8]
	}
	return &models.Group{
		ID:                 groupID,
		Name:               "Grupo de Teste " + short,
		Description:        "Grupo mock para testes",
		OwnerID:            "123456789",
		OwnerTag:           "DonoTeste#1234",
		TotalMembers:       25,
		TotalContributions: 5000,
		Level:              3,
		XP:                 750,
		Privacy:            models.PrivacyPublic,
		CreatedAt:          time.Now().UTC(),
		Active:             true,
	}
}

// Members returns ten synthetic memberships with a fixed role distribution:
// one owner, two admins, seven members.
func Members(groupID string) []models.Membership {
	now := time.Now().UTC()
	members := make([]models.Membership, 0, 10)
	for i := 1; i <= 10; i++ {
		role := models.SystemMemberRole
		level := models.MemberRoleLevel
		switch {
		case i == 1:
			role = models.SystemOwnerRole
			level = models.OwnerRoleLevel
		case i <= 3:
			role = "Admin"
			level = 50
		}
		members = append(members, models.Membership{
			GroupID:      groupID,
			UserID:       fmt.Sprintf("user%d_%d", i, now.UnixMilli()),
			Role:         role,
			Level:        level,
			Contribution: i * 100,
			XP:           i * 50,
			JoinedAt:     now,
			Active:       true,
		})
	}
	return members
}

// Roles returns the role set matching the Members distribution.
func Roles() []models.Role {
	return []models.Role{
		{Name: models.SystemOwnerRole, Level: models.OwnerRoleLevel, System: true, Members: 1},
		{Name: "Admin", Level: 50, Members: 2},
		{Name: models.SystemMemberRole, Level: models.MemberRoleLevel, System: true, Members: 7},
	}
}
