package models

import "time"

// Privacy values stored on group documents.
const (
	PrivacyPublic  = "publico"
	PrivacyPrivate = "privado"
)

// Group is a document from the "grupos" collection. The document id is the
// externally assigned group identifier and never changes after creation.
type Group struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"nome" json:"nome"`
	Description        string    `bson:"descricao" json:"descricao"`
	OwnerID            string    `bson:"donoId" json:"donoId"`
	OwnerTag           string    `bson:"donoTag" json:"donoTag"`
	TotalMembers       int       `bson:"totalMembros" json:"totalMembros"`
	TotalContributions int       `bson:"totalContribuicoes" json:"totalContribuicoes"`
	Level              int       `bson:"nivel" json:"nivel"`
	XP                 int       `bson:"xp" json:"xp"`
	Privacy            string    `bson:"privacidade" json:"privacidade"`
	CreatedAt          time.Time `bson:"criadoEm" json:"criadoEm"`
	Active             bool      `bson:"ativo" json:"-"`
}

// Normalize applies the storage defaulting rules once, at the adapter
// boundary: level is at least 1, counters are non-negative, privacy defaults
// to public.
func (g *Group) Normalize() {
	if g.Level < 1 {
		g.Level = 1
	}
	if g.XP < 0 {
		g.XP = 0
	}
	if g.TotalMembers < 0 {
		g.TotalMembers = 0
	}
	if g.TotalContributions < 0 {
		g.TotalContributions = 0
	}
	if g.Privacy == "" {
		g.Privacy = PrivacyPublic
	}
}

// Summary reduces a group to the lightweight shape returned by search.
func (g *Group) Summary() GroupSummary {
	return GroupSummary{
		ID:                 g.ID,
		Name:               g.Name,
		Description:        g.Description,
		OwnerTag:           g.OwnerTag,
		TotalMembers:       g.TotalMembers,
		TotalContributions: g.TotalContributions,
		Privacy:            g.Privacy,
	}
}
