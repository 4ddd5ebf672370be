package repository

import (
	"context"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RoleRepository struct {
	c *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{c: db.Collection("cargos")}
}

// FindByGroup assembles the full role set of a group. The stored documents
// are the custom roles; the system owner tier is always present, and the
// system member tier is added unless a custom role is based on it.
func (r *RoleRepository) FindByGroup(ctx context.Context, groupID string) ([]models.Role, error) {
	cursor, err := r.c.Find(ctx, bson.M{"grupoId": groupID})
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	var custom []models.Role
	hasMemberBase := false
	for cursor.Next(ctx) {
		var role models.Role
		if err := cursor.Decode(&role); err != nil {
			return nil, unavailable(err)
		}
		role.System = false
		if role.BasedOn == models.SystemMemberRole {
			hasMemberBase = true
		}
		custom = append(custom, role)
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(err)
	}

	roles := []models.Role{
		{Name: models.SystemOwnerRole, Level: models.OwnerRoleLevel, System: true},
	}
	if !hasMemberBase {
		roles = append(roles, models.Role{Name: models.SystemMemberRole, Level: models.MemberRoleLevel, System: true})
	}
	return append(roles, custom...), nil
}
