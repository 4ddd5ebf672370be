package models

// System role tiers. Every group carries exactly one owner tier, and a
// member tier unless a custom role is explicitly based on it.
const (
	SystemOwnerRole  = "Dono"
	SystemMemberRole = "Membro"

	OwnerRoleLevel  = 100
	MemberRoleLevel = 1
)

// Role is a named tier within a group. Custom roles live in the "cargos"
// collection; system roles are assembled by the adapter. Members is derived
// from the current membership set and never stored.
type Role struct {
	GroupID string `bson:"grupoId" json:"-"`
	Name    string `bson:"nome" json:"nome"`
	Level   int    `bson:"nivel" json:"nivel"`
	BasedOn string `bson:"baseadoEm,omitempty" json:"-"`
	System  bool   `bson:"-" json:"sistema"`
	Members int    `bson:"-" json:"membros"`
}
