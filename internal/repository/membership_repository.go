package repository

import (
	"context"
	"errors"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MembershipRepository struct {
	c *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{c: db.Collection("membros_grupos")}
}

// FindByGroup lists the active memberships of a group, bounded by limit.
func (r *MembershipRepository) FindByGroup(ctx context.Context, groupID string, limit int) ([]models.Membership, error) {
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.c.Find(ctx, bson.M{"grupoId": groupID, "ativo": true}, opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

// FindOne resolves a single membership by its composite key.
func (r *MembershipRepository) FindOne(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	var membership models.Membership
	err := r.c.FindOne(ctx, bson.M{"_id": groupID + "_" + userID}).Decode(&membership)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	membership.Normalize()
	return &membership, nil
}

// FindByMember lists a member's active memberships across all groups.
// Active-only matches every other membership query path.
func (r *MembershipRepository) FindByMember(ctx context.Context, userID string) ([]models.Membership, error) {
	cursor, err := r.c.Find(ctx, bson.M{"usuarioId": userID, "ativo": true})
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	return decodeMemberships(ctx, cursor)
}

func decodeMemberships(ctx context.Context, cursor *mongo.Cursor) ([]models.Membership, error) {
	var memberships []models.Membership
	for cursor.Next(ctx) {
		var membership models.Membership
		if err := cursor.Decode(&membership); err != nil {
			return nil, unavailable(err)
		}
		membership.Normalize()
		memberships = append(memberships, membership)
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(err)
	}
	return memberships, nil
}
