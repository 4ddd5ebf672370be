package models

import "time"

// Membership is a document from the "membros_grupos" collection. The
// document id is the composite key "<grupoId>_<usuarioId>". Inactive
// memberships are excluded from every aggregation path; the store always
// materializes the ativo flag on write.
type Membership struct {
	ID           string    `bson:"_id" json:"-"`
	GroupID      string    `bson:"grupoId" json:"-"`
	UserID       string    `bson:"usuarioId" json:"usuarioId"`
	Role         string    `bson:"cargo" json:"cargo"`
	Level        int       `bson:"nivel" json:"nivel"`
	Contribution int       `bson:"contribuicao" json:"contribuicao"`
	XP           int       `bson:"xp" json:"xp"`
	JoinedAt     time.Time `bson:"entrouEm" json:"entrouEm"`
	Active       bool      `bson:"ativo" json:"ativo"`
}

// Normalize applies the storage defaulting rules: level is at least 1 and an
// unset role falls back to the system member tier.
func (m *Membership) Normalize() {
	if m.Level < 1 {
		m.Level = 1
	}
	if m.Role == "" {
		m.Role = SystemMemberRole
	}
	if m.Contribution < 0 {
		m.Contribution = 0
	}
	if m.XP < 0 {
		m.XP = 0
	}
}
