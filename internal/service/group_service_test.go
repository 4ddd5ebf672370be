package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/27sBurguer/roblox-get-eb-division-group/internal/models"
	"github.com/27sBurguer/roblox-get-eb-division-group/internal/repository"
)

var errStoreDown = fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)

type fakeGroupRepo struct {
	groups map[string]*models.Group
	err    error
	calls  int
}

func (f *fakeGroupRepo) FindByID(ctx context.Context, id string) (*models.Group, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	group, ok := f.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return group, nil
}

func (f *fakeGroupRepo) SearchByName(ctx context.Context, name string, limit int) ([]models.Group, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	needle := strings.ToLower(name)
	matches := make([]models.Group, 0)
	for _, g := range f.groups {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			matches = append(matches, *g)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (f *fakeGroupRepo) Rank(ctx context.Context, metric repository.RankMetric, limit int) ([]models.Group, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	ranked := []models.Group{
		{ID: "G1", Name: "Alpha", TotalMembers: 30, TotalContributions: 900, Level: 5},
		{ID: "G2", Name: "Bravo", TotalMembers: 20, TotalContributions: 600, Level: 4},
		{ID: "G3", Name: "Charlie", TotalMembers: 10, TotalContributions: 300, Level: 3},
	}
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

type fakeMembershipRepo struct {
	members []models.Membership
	err     error
	calls   int
}

func (f *fakeMembershipRepo) FindByGroup(ctx context.Context, groupID string, limit int) ([]models.Membership, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	matches := make([]models.Membership, 0)
	for _, m := range f.members {
		if m.GroupID == groupID && m.Active {
			matches = append(matches, m)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (f *fakeMembershipRepo) FindOne(ctx context.Context, groupID, userID string) (*models.Membership, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.members {
		if f.members[i].GroupID == groupID && f.members[i].UserID == userID {
			return &f.members[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMembershipRepo) FindByMember(ctx context.Context, userID string) ([]models.Membership, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	matches := make([]models.Membership, 0)
	for _, m := range f.members {
		if m.UserID == userID && m.Active {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

type fakeRoleRepo struct {
	roles []models.Role
	err   error
	calls int
}

func (f *fakeRoleRepo) FindByGroup(ctx context.Context, groupID string) ([]models.Role, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Role, len(f.roles))
	copy(out, f.roles)
	return out, nil
}

func testGroup() *models.Group {
	return &models.Group{
		ID:           "G1",
		Name:         "Divisão EB",
		OwnerID:      "owner1",
		OwnerTag:     "Dono#0001",
		TotalMembers: 3,
		Level:        5,
		Privacy:      models.PrivacyPublic,
		Active:       true,
	}
}

func testMemberships() []models.Membership {
	return []models.Membership{
		{ID: "G1_u1", GroupID: "G1", UserID: "u1", Role: models.SystemOwnerRole, Level: 10, Contribution: 100, XP: 50, Active: true},
		{ID: "G1_u2", GroupID: "G1", UserID: "u2", Role: models.SystemMemberRole, Level: 20, Contribution: 200, XP: 100, Active: true},
		{ID: "G1_u3", GroupID: "G1", UserID: "u3", Role: "Sargento", Level: 30, Contribution: 300, XP: 150, Active: true},
	}
}

func testRoles() []models.Role {
	return []models.Role{
		{GroupID: "G1", Name: models.SystemOwnerRole, Level: models.OwnerRoleLevel, System: true},
		{GroupID: "G1", Name: models.SystemMemberRole, Level: models.MemberRoleLevel, System: true},
		{GroupID: "G1", Name: "Sargento", Level: 40},
	}
}

func newTestService() (*GroupService, *fakeGroupRepo, *fakeMembershipRepo, *fakeRoleRepo) {
	groups := &fakeGroupRepo{groups: map[string]*models.Group{"G1": testGroup()}}
	memberships := &fakeMembershipRepo{members: testMemberships()}
	roles := &fakeRoleRepo{roles: testRoles()}
	return NewGroupService(groups, memberships, roles), groups, memberships, roles
}

func TestAssembleGroupViewStatistics(t *testing.T) {
	svc, _, _, _ := newTestService()

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	if view.Group.ID != "G1" {
		t.Errorf("Group ID = %q, want G1", view.Group.ID)
	}
	if len(view.Members) != 3 {
		t.Fatalf("Members = %d, want 3", len(view.Members))
	}
	if view.Statistics.TotalMembers != len(view.Members) {
		t.Errorf("TotalMembers = %d, want %d", view.Statistics.TotalMembers, len(view.Members))
	}
	if view.Statistics.ActiveMembers != 3 {
		t.Errorf("ActiveMembers = %d, want 3", view.Statistics.ActiveMembers)
	}
	if view.Statistics.TotalContribution != 600 {
		t.Errorf("TotalContribution = %d, want 600", view.Statistics.TotalContribution)
	}
	// levels 10, 20, 30
	if view.Statistics.MeanLevel != 20.0 {
		t.Errorf("MeanLevel = %v, want 20.0", view.Statistics.MeanLevel)
	}
}

func TestAssembleGroupViewMeanLevelRounding(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.members = []models.Membership{
		{GroupID: "G1", UserID: "u1", Role: models.SystemMemberRole, Level: 10, Active: true},
		{GroupID: "G1", UserID: "u2", Role: models.SystemMemberRole, Level: 11, Active: true},
		{GroupID: "G1", UserID: "u3", Role: models.SystemMemberRole, Level: 12, Active: true},
	}

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	// (10+11+12)/3 = 11, exact; (10+11)/2 with pair below checks the rounding
	if view.Statistics.MeanLevel != 11.0 {
		t.Errorf("MeanLevel = %v, want 11.0", view.Statistics.MeanLevel)
	}

	memberships.members = memberships.members[:2]
	view, err = svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}
	if view.Statistics.MeanLevel != 10.5 {
		t.Errorf("MeanLevel = %v, want 10.5", view.Statistics.MeanLevel)
	}
}

func TestAssembleGroupViewRoleCounts(t *testing.T) {
	svc, _, memberships, _ := newTestService()

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	total := 0
	byName := map[string]int{}
	for _, r := range view.Roles {
		total += r.Members
		byName[r.Name] = r.Members
	}
	if total != len(memberships.members) {
		t.Errorf("role member counts sum to %d, want %d", total, len(memberships.members))
	}
	if byName[models.SystemOwnerRole] != 1 || byName["Sargento"] != 1 || byName[models.SystemMemberRole] != 1 {
		t.Errorf("role counts = %v, want one member per tier", byName)
	}

	// Roles are ordered by seniority.
	for i := 1; i < len(view.Roles); i++ {
		if view.Roles[i].Level > view.Roles[i-1].Level {
			t.Errorf("roles not sorted descending: %s(%d) after %s(%d)",
				view.Roles[i].Name, view.Roles[i].Level, view.Roles[i-1].Name, view.Roles[i-1].Level)
		}
	}
}

func TestAssembleGroupViewUnknownRoleCountsAsMember(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.members = append(memberships.members, models.Membership{
		GroupID: "G1", UserID: "u4", Role: "CargoRemovido", Level: 5, Active: true,
	})

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	for _, r := range view.Roles {
		if r.Name == models.SystemMemberRole && r.Members != 2 {
			t.Errorf("member tier count = %d, want 2 (one direct, one orphaned)", r.Members)
		}
	}
}

func TestAssembleGroupViewLevelFilter(t *testing.T) {
	svc, _, _, _ := newTestService()

	view, err := svc.AssembleGroupView(context.Background(), "G1", &models.LevelRange{Min: 15, Max: 99})
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	if len(view.Members) != 2 {
		t.Fatalf("filtered members = %d, want 2", len(view.Members))
	}
	for _, m := range view.Members {
		if m.Level < 15 {
			t.Errorf("member %s level %d escaped the filter", m.UserID, m.Level)
		}
	}

	// Statistics follow the filtered set, role counts do not.
	if view.Statistics.TotalMembers != 2 {
		t.Errorf("TotalMembers = %d, want 2", view.Statistics.TotalMembers)
	}
	total := 0
	for _, r := range view.Roles {
		total += r.Members
	}
	if total != 3 {
		t.Errorf("role counts sum to %d, want 3 (unfiltered)", total)
	}
}

func TestAssembleGroupViewNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AssembleGroupView(context.Background(), "missing", nil)
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestAssembleGroupViewFallbackOnStoreFailure(t *testing.T) {
	svc, groups, memberships, roles := newTestService()
	groups.err = errStoreDown

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	if view.Group.ID != "G1" {
		t.Errorf("fallback Group ID = %q, want the requested id", view.Group.ID)
	}
	if !strings.HasPrefix(view.Group.Name, "Grupo de Teste") {
		t.Errorf("fallback Group Name = %q, want synthetic test name", view.Group.Name)
	}
	if len(view.Members) != 10 {
		t.Errorf("fallback members = %d, want 10", len(view.Members))
	}
	if memberships.calls != 0 || roles.calls != 0 {
		t.Errorf("fallback pipeline still queried the store: memberships=%d roles=%d", memberships.calls, roles.calls)
	}
}

func TestAssembleGroupViewPartialFallback(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.err = errStoreDown

	view, err := svc.AssembleGroupView(context.Background(), "G1", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}

	// Group stays real, members come from the fallback set.
	if view.Group.Name != "Divisão EB" {
		t.Errorf("Group Name = %q, want the stored name", view.Group.Name)
	}
	if len(view.Members) != 10 {
		t.Errorf("fallback members = %d, want 10", len(view.Members))
	}
}

func TestAssembleGroupViewNilRepositories(t *testing.T) {
	svc := NewGroupService(nil, nil, nil)

	view, err := svc.AssembleGroupView(context.Background(), "G9", nil)
	if err != nil {
		t.Fatalf("AssembleGroupView failed: %v", err)
	}
	if view.Group.ID != "G9" || len(view.Members) != 10 {
		t.Errorf("nil-repository view = group %q with %d members, want fallback data", view.Group.ID, len(view.Members))
	}
}

func TestSearchGroups(t *testing.T) {
	svc, groups, _, _ := newTestService()
	groups.groups["G2"] = &models.Group{ID: "G2", Name: "Divisão Naval", Active: true}
	groups.groups["G3"] = &models.Group{ID: "G3", Name: "Outra Coisa", Active: true}

	results, err := svc.SearchGroups(context.Background(), "divisão", 10)
	if err != nil {
		t.Fatalf("SearchGroups failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.Name), "divisão") {
			t.Errorf("result %q does not contain the query", r.Name)
		}
	}
}

func TestSearchGroupsMissingQuery(t *testing.T) {
	svc, groups, _, _ := newTestService()

	_, err := svc.SearchGroups(context.Background(), "", 10)
	if !errors.Is(err, ErrMissingQuery) {
		t.Errorf("err = %v, want ErrMissingQuery", err)
	}
	if groups.calls != 0 {
		t.Errorf("store queried %d times for an empty query, want 0", groups.calls)
	}
}

func TestSearchGroupsDegradesOnStoreFailure(t *testing.T) {
	svc, groups, _, _ := newTestService()
	groups.err = errStoreDown

	results, err := svc.SearchGroups(context.Background(), "divisão", 10)
	if err != nil {
		t.Fatalf("SearchGroups failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want empty on store failure", len(results))
	}
}

func TestRankGroupsPositions(t *testing.T) {
	svc, _, _, _ := newTestService()

	ranking, err := svc.RankGroups(context.Background(), MetricMembers, 10)
	if err != nil {
		t.Fatalf("RankGroups failed: %v", err)
	}
	if len(ranking) != 3 {
		t.Fatalf("ranking = %d entries, want 3", len(ranking))
	}

	for i, entry := range ranking {
		if entry.Position != i+1 {
			t.Errorf("entry %d Position = %d, want %d", i, entry.Position, i+1)
		}
		if i > 0 && entry.TotalMembers > ranking[i-1].TotalMembers {
			t.Errorf("ranking not descending at position %d", entry.Position)
		}
	}
}

func TestRankGroupsLimit(t *testing.T) {
	svc, _, _, _ := newTestService()

	ranking, err := svc.RankGroups(context.Background(), MetricContributions, 2)
	if err != nil {
		t.Fatalf("RankGroups failed: %v", err)
	}
	if len(ranking) != 2 {
		t.Errorf("ranking = %d entries, want 2", len(ranking))
	}
}

func TestRankGroupsDegradesOnStoreFailure(t *testing.T) {
	svc, groups, _, _ := newTestService()
	groups.err = errStoreDown

	ranking, err := svc.RankGroups(context.Background(), MetricLevel, 10)
	if err != nil {
		t.Fatalf("RankGroups failed: %v", err)
	}
	if len(ranking) != 0 {
		t.Errorf("ranking = %d entries, want empty on store failure", len(ranking))
	}
}

func TestResolveMemberInGroup(t *testing.T) {
	svc, _, _, _ := newTestService()

	view, err := svc.ResolveMember(context.Background(), "u2", "G1")
	if err != nil {
		t.Fatalf("ResolveMember failed: %v", err)
	}
	if view.TotalGroups != 1 || len(view.Groups) != 1 {
		t.Fatalf("TotalGroups = %d, want 1", view.TotalGroups)
	}
	if view.Groups[0].GroupID != "G1" || view.Groups[0].Role != models.SystemMemberRole {
		t.Errorf("entry = %+v, want G1 membership", view.Groups[0])
	}
	if view.Statistics.TotalContribution != 200 || view.Statistics.MeanLevel != 20.0 {
		t.Errorf("statistics = %+v, want contribution 200, mean level 20", view.Statistics)
	}
}

func TestResolveMemberNotFoundInGroup(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ResolveMember(context.Background(), "stranger", "G1")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestResolveMemberStoreFailureInGroup(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.err = errStoreDown

	_, err := svc.ResolveMember(context.Background(), "u2", "G1")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("err = %v, want ErrMemberNotFound on store failure", err)
	}
}

func TestResolveMemberAcrossGroups(t *testing.T) {
	svc, groups, memberships, _ := newTestService()
	groups.groups["G2"] = &models.Group{ID: "G2", Name: "Divisão Naval", Active: true}
	memberships.members = append(memberships.members, models.Membership{
		ID: "G2_u2", GroupID: "G2", UserID: "u2", Role: "Admin", Level: 40, Contribution: 400, XP: 200, Active: true,
	})

	view, err := svc.ResolveMember(context.Background(), "u2", "")
	if err != nil {
		t.Fatalf("ResolveMember failed: %v", err)
	}
	if view.TotalGroups != 2 {
		t.Fatalf("TotalGroups = %d, want 2", view.TotalGroups)
	}

	names := map[string]string{}
	for _, entry := range view.Groups {
		names[entry.GroupID] = entry.GroupName
	}
	if names["G1"] != "Divisão EB" || names["G2"] != "Divisão Naval" {
		t.Errorf("group names = %v, want enrichment from the group documents", names)
	}
	if view.Statistics.TotalContribution != 600 || view.Statistics.TotalXP != 300 {
		t.Errorf("statistics = %+v, want summed contribution 600 and XP 300", view.Statistics)
	}
	if view.Statistics.MeanLevel != 30.0 {
		t.Errorf("MeanLevel = %v, want 30.0", view.Statistics.MeanLevel)
	}
}

func TestResolveMemberSkipsMissingGroups(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.members = append(memberships.members, models.Membership{
		ID: "Gx_u2", GroupID: "Gx", UserID: "u2", Role: "Membro", Level: 5, Active: true,
	})

	view, err := svc.ResolveMember(context.Background(), "u2", "")
	if err != nil {
		t.Fatalf("ResolveMember failed: %v", err)
	}
	if view.TotalGroups != 1 {
		t.Errorf("TotalGroups = %d, want 1 (dangling membership skipped)", view.TotalGroups)
	}
}

func TestResolveMemberListingDegradesOnStoreFailure(t *testing.T) {
	svc, _, memberships, _ := newTestService()
	memberships.err = errStoreDown

	view, err := svc.ResolveMember(context.Background(), "u2", "")
	if err != nil {
		t.Fatalf("ResolveMember failed: %v", err)
	}
	if view.TotalGroups != 0 || len(view.Groups) != 0 {
		t.Errorf("listing = %d groups, want empty on store failure", view.TotalGroups)
	}
}
