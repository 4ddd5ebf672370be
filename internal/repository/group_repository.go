package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchOverFetch is how many times the requested limit SearchByName reads
// from the store before filtering locally. The store cannot run substring
// predicates, so the adapter over-fetches and narrows in memory. Tunable,
// not a guaranteed bound on distinct matches.
const searchOverFetch = 5

type GroupRepository struct {
	c *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{c: db.Collection("grupos")}
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	group.Normalize()
	return &group, nil
}

// SearchByName lists active groups whose name contains the query,
// case-insensitively. The store-side query sorts by name and over-fetches;
// the substring match and the final truncation happen here.
func (r *GroupRepository) SearchByName(ctx context.Context, name string, limit int) ([]models.Group, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "nome", Value: 1}}).
		SetLimit(int64(limit * searchOverFetch))

	cursor, err := r.c.Find(ctx, bson.M{"ativo": true}, opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	needle := strings.ToLower(name)
	groups := make([]models.Group, 0, limit)
	for cursor.Next(ctx) {
		var group models.Group
		if err := cursor.Decode(&group); err != nil {
			return nil, unavailable(err)
		}
		if !strings.Contains(strings.ToLower(group.Name), needle) {
			continue
		}
		group.Normalize()
		groups = append(groups, group)
		if len(groups) == limit {
			break
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(err)
	}
	return groups, nil
}

// Rank lists active groups ordered descending by the metric. Ties break on
// document id ascending so consecutive calls return the same order.
func (r *GroupRepository) Rank(ctx context.Context, metric RankMetric, limit int) ([]models.Group, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: string(metric), Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.c.Find(ctx, bson.M{"ativo": true}, opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	var groups []models.Group
	for cursor.Next(ctx) {
		var group models.Group
		if err := cursor.Decode(&group); err != nil {
			return nil, unavailable(err)
		}
		group.Normalize()
		groups = append(groups, group)
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(err)
	}
	return groups, nil
}
