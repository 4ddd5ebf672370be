package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"time"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/fallback"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/repository"
)

// maxMembersPage bounds how many memberships one group view reads.
const maxMembersPage = 1000

// Ranking metrics accepted on the API surface.
const (
	MetricMembers       = "members"
	MetricContributions = "contributions"
	MetricLevel         = "level"
)

var (
	// ErrGroupNotFound means the group does not exist. Absence is terminal;
	// it never yields fallback data.
	ErrGroupNotFound = errors.New("group not found")
	// ErrMemberNotFound means the member has no membership in the group.
	ErrMemberNotFound = errors.New("member not found in group")
	// ErrMissingQuery means the search text was absent or blank.
	ErrMissingQuery = errors.New("search text is required")
)

// GroupService assembles group views from the record store, substituting
// fallback data when the store is unavailable. Repositories may be nil when
// the store connection could not be established at startup; every path then
// behaves as if the store were unreachable.
type GroupService struct {
	groups      repository.GroupRepositoryInterface
	memberships repository.MembershipRepositoryInterface
	roles       repository.RoleRepositoryInterface
}

func NewGroupService(groups repository.GroupRepositoryInterface, memberships repository.MembershipRepositoryInterface, roles repository.RoleRepositoryInterface) *GroupService {
	return &GroupService{groups: groups, memberships: memberships, roles: roles}
}

// AssembleGroupView builds the composite answer for one group: the group
// document, its roles sorted by seniority with recomputed member counts, the
// level-filtered members and the derived statistics.
//
// Store failure during group resolution switches the whole pipeline to
// fallback data while preserving the requested identifier. Later fetches
// fall back individually. A missing group is reported as ErrGroupNotFound.
func (s *GroupService) AssembleGroupView(ctx context.Context, groupID string, levels *models.LevelRange) (*models.GroupView, error) {
	group, err := s.fetchGroup(ctx, groupID)
	degraded := false
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrGroupNotFound
	case errors.Is(err, repository.ErrStoreUnavailable):
		log.Printf("[service] store unavailable for group %s, serving fallback: %v", groupID, err)
		group = fallback.Group(groupID)
		degraded = true
	case err != nil:
		return nil, err
	}

	var members []models.Membership
	if degraded {
		members = fallback.Members(groupID)
	} else {
		members, err = s.memberships.FindByGroup(ctx, groupID, maxMembersPage)
		if errors.Is(err, repository.ErrStoreUnavailable) {
			log.Printf("[service] member fetch failed for group %s, serving fallback: %v", groupID, err)
			members = fallback.Members(groupID)
		} else if err != nil {
			return nil, err
		}
	}

	var roles []models.Role
	if degraded {
		roles = fallback.Roles()
	} else {
		roles, err = s.roles.FindByGroup(ctx, groupID)
		if errors.Is(err, repository.ErrStoreUnavailable) {
			log.Printf("[service] role fetch failed for group %s, serving fallback: %v", groupID, err)
			roles = fallback.Roles()
		} else if err != nil {
			return nil, err
		}
	}

	// Role counts come from the unfiltered membership set; the level filter
	// only narrows the member list and the statistics.
	roles = recountRoles(roles, members)
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Level > roles[j].Level })

	filtered := filterByLevel(members, levels)

	return &models.GroupView{
		Group:      group,
		Roles:      roles,
		Members:    filtered,
		Statistics: computeStatistics(filtered),
		Timestamp:  time.Now().UTC(),
	}, nil
}

// SearchGroups lists group summaries whose name contains the text,
// case-insensitively. Store failure degrades to an empty result.
func (s *GroupService) SearchGroups(ctx context.Context, name string, limit int) ([]models.GroupSummary, error) {
	if name == "" {
		return nil, ErrMissingQuery
	}
	if s.groups == nil {
		return []models.GroupSummary{}, nil
	}

	groups, err := s.groups.SearchByName(ctx, name, limit)
	if errors.Is(err, repository.ErrStoreUnavailable) {
		log.Printf("[service] search %q degraded to empty: %v", name, err)
		return []models.GroupSummary{}, nil
	}
	if err != nil {
		return nil, err
	}

	summaries := make([]models.GroupSummary, 0, len(groups))
	for i := range groups {
		summaries = append(summaries, groups[i].Summary())
	}
	return summaries, nil
}

// RankGroups orders active groups descending by the metric and attaches
// 1-based positions. Unknown metrics rank by member count. Store failure
// degrades to an empty result.
func (s *GroupService) RankGroups(ctx context.Context, metric string, limit int) ([]models.RankedGroup, error) {
	if s.groups == nil {
		return []models.RankedGroup{}, nil
	}

	groups, err := s.groups.Rank(ctx, rankMetricFor(metric), limit)
	if errors.Is(err, repository.ErrStoreUnavailable) {
		log.Printf("[service] ranking %q degraded to empty: %v", metric, err)
		return []models.RankedGroup{}, nil
	}
	if err != nil {
		return nil, err
	}

	ranking := make([]models.RankedGroup, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		ranking = append(ranking, models.RankedGroup{
			Position:           i + 1,
			ID:                 g.ID,
			Name:               g.Name,
			OwnerTag:           g.OwnerTag,
			TotalMembers:       g.TotalMembers,
			TotalContributions: g.TotalContributions,
			Level:              g.Level,
			XP:                 g.XP,
		})
	}
	return ranking, nil
}

// ResolveMember returns either the member's single membership in one group
// (ErrMemberNotFound when absent) or all their active memberships across
// groups enriched with group names, plus summed contribution/XP and mean
// level over the returned set.
func (s *GroupService) ResolveMember(ctx context.Context, memberID, groupID string) (*models.MemberView, error) {
	var entries []models.MemberGroup

	if groupID != "" {
		if s.memberships == nil {
			return nil, ErrMemberNotFound
		}
		membership, err := s.memberships.FindOne(ctx, groupID, memberID)
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrStoreUnavailable) {
			return nil, ErrMemberNotFound
		}
		if err != nil {
			return nil, err
		}
		entries = []models.MemberGroup{memberGroupEntry(membership, "")}
	} else {
		entries = s.listMemberGroups(ctx, memberID)
	}

	return &models.MemberView{
		UserID:      memberID,
		TotalGroups: len(entries),
		Groups:      entries,
		Statistics:  memberStatistics(entries),
		Timestamp:   time.Now().UTC(),
	}, nil
}

// listMemberGroups gathers a member's memberships across groups, enriched
// with the group name. Memberships whose group no longer exists are skipped;
// store failure degrades the whole listing to empty.
func (s *GroupService) listMemberGroups(ctx context.Context, memberID string) []models.MemberGroup {
	if s.memberships == nil || s.groups == nil {
		return []models.MemberGroup{}
	}

	memberships, err := s.memberships.FindByMember(ctx, memberID)
	if err != nil {
		log.Printf("[service] membership listing for %s degraded to empty: %v", memberID, err)
		return []models.MemberGroup{}
	}

	entries := make([]models.MemberGroup, 0, len(memberships))
	for i := range memberships {
		m := &memberships[i]
		group, err := s.groups.FindByID(ctx, m.GroupID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Printf("[service] membership listing for %s degraded to empty: %v", memberID, err)
			return []models.MemberGroup{}
		}
		entries = append(entries, memberGroupEntry(m, group.Name))
	}
	return entries
}

func (s *GroupService) fetchGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if s.groups == nil {
		return nil, repository.ErrStoreUnavailable
	}
	return s.groups.FindByID(ctx, groupID)
}

func memberGroupEntry(m *models.Membership, groupName string) models.MemberGroup {
	return models.MemberGroup{
		GroupID:      m.GroupID,
		GroupName:    groupName,
		Role:         m.Role,
		Level:        m.Level,
		Contribution: m.Contribution,
		XP:           m.XP,
		JoinedAt:     m.JoinedAt,
		Active:       m.Active,
	}
}

// recountRoles recomputes each role's member count by grouping the
// membership set by role name. Role names with no matching role tier count
// toward the system member role.
func recountRoles(roles []models.Role, members []models.Membership) []models.Role {
	known := make(map[string]bool, len(roles))
	for i := range roles {
		known[roles[i].Name] = true
	}

	counts := make(map[string]int, len(roles))
	for i := range members {
		name := members[i].Role
		if !known[name] {
			name = models.SystemMemberRole
		}
		counts[name]++
	}

	for i := range roles {
		roles[i].Members = counts[roles[i].Name]
	}
	return roles
}

func filterByLevel(members []models.Membership, levels *models.LevelRange) []models.Membership {
	if levels == nil {
		return members
	}
	filtered := make([]models.Membership, 0, len(members))
	for i := range members {
		if levels.Contains(members[i].Level) {
			filtered = append(filtered, members[i])
		}
	}
	return filtered
}

func computeStatistics(members []models.Membership) models.Statistics {
	stats := models.Statistics{TotalMembers: len(members)}
	if len(members) == 0 {
		return stats
	}

	levelSum := 0
	for i := range members {
		m := &members[i]
		if m.Active {
			stats.ActiveMembers++
		}
		stats.TotalContribution += m.Contribution
		levelSum += m.Level
	}
	stats.MeanLevel = round2(float64(levelSum) / float64(len(members)))
	return stats
}

func memberStatistics(entries []models.MemberGroup) models.MemberStatistics {
	stats := models.MemberStatistics{}
	if len(entries) == 0 {
		return stats
	}

	levelSum := 0
	for i := range entries {
		stats.TotalContribution += entries[i].Contribution
		stats.TotalXP += entries[i].XP
		levelSum += entries[i].Level
	}
	stats.MeanLevel = round2(float64(levelSum) / float64(len(entries)))
	return stats
}

func rankMetricFor(metric string) repository.RankMetric {
	switch metric {
	case MetricContributions:
		return repository.RankByContributions
	case MetricLevel:
		return repository.RankByLevel
	default:
		return repository.RankByMembers
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
