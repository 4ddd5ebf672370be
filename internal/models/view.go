package models

import "time"

// LevelRange is an inclusive member level filter.
type LevelRange struct {
	Min int
	Max int
}

// Contains reports whether a member level falls inside the range.
func (r LevelRange) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}

// Statistics are derived over the filtered membership set of a group view.
type Statistics struct {
	TotalMembers      int     `json:"totalMembros"`
	ActiveMembers     int     `json:"membrosAtivos"`
	TotalContribution int     `json:"totalContribuicao"`
	MeanLevel         float64 `json:"mediaNivel"`
}

// GroupView is the assembled, immutable answer to a group query: the group,
// its roles sorted by seniority with recomputed member counts, the filtered
// member list and the derived statistics.
type GroupView struct {
	Group      *Group       `json:"grupo"`
	Roles      []Role       `json:"cargos"`
	Members    []Membership `json:"membros"`
	Statistics Statistics   `json:"estatisticas"`
	Timestamp  time.Time    `json:"timestamp"`
}

// GroupSummary is the lightweight group shape returned by name search.
type GroupSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"nome"`
	Description        string `json:"descricao"`
	OwnerTag           string `json:"donoTag"`
	TotalMembers       int    `json:"totalMembros"`
	TotalContributions int    `json:"totalContribuicoes"`
	Privacy            string `json:"privacidade"`
}

// RankedGroup is one entry of a ranking, with its 1-based position.
type RankedGroup struct {
	Position           int    `json:"posicao"`
	ID                 string `json:"id"`
	Name               string `json:"nome"`
	OwnerTag           string `json:"donoTag"`
	TotalMembers       int    `json:"totalMembros"`
	TotalContributions int    `json:"totalContribuicoes"`
	Level              int    `json:"nivel"`
	XP                 int    `json:"xp"`
}

// MemberGroup is one membership of a member, optionally enriched with the
// group name when listed across groups.
type MemberGroup struct {
	GroupID      string    `json:"grupoId"`
	GroupName    string    `json:"grupoNome,omitempty"`
	Role         string    `json:"cargo"`
	Level        int       `json:"nivel"`
	Contribution int       `json:"contribuicao"`
	XP           int       `json:"xp"`
	JoinedAt     time.Time `json:"entrouEm"`
	Active       bool      `json:"ativo"`
}

// MemberStatistics are derived over the memberships returned for a member.
type MemberStatistics struct {
	TotalContribution int     `json:"totalContribuicao"`
	TotalXP           int     `json:"totalXP"`
	MeanLevel         float64 `json:"mediaNivel"`
}

// MemberView bundles a member's memberships with their derived statistics.
type MemberView struct {
	UserID      string           `json:"usuarioId"`
	TotalGroups int              `json:"totalGrupos"`
	Groups      []MemberGroup    `json:"grupos"`
	Statistics  MemberStatistics `json:"estatisticas"`
	Timestamp   time.Time        `json:"timestamp"`
}
