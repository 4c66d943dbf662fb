// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/forecast-club/models"
	"github.com/danielhkuo/forecast-club/store"
	"github.com/danielhkuo/forecast-club/testutil"
)

var t0 = testutil.T0

func TestGetOrCreateUser(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()

	first, err := repo.GetOrCreateUser(ctx, "  Alice@Example.com ", t0)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Nil(t, first.DisplayName)

	again, err := repo.GetOrCreateUser(ctx, "alice@example.com", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.CreatedAt.Equal(t0), "created_at should not move on second sign-in")

	byEmail, err := repo.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byEmail.ID)
}

func TestUpdateDisplayName(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "bob@example.com")

	name := "Bob"
	updated, err := repo.UpdateDisplayName(ctx, user.ID, &name)
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Bob", *updated.DisplayName)

	_, err = repo.UpdateDisplayName(ctx, "missing", &name)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserNotFound(t *testing.T) {
	repo := testutil.SetupTestStore(t)

	_, err := repo.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateGroupAddsAdmin(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	admin := testutil.CreateTestUser(t, repo, "admin@example.com")
	group := testutil.CreateTestGroup(t, repo, admin.ID, "Forecasters")

	m, err := repo.GetMembership(ctx, group.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)

	byCode, err := repo.GetGroupByInviteCode(ctx, group.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, group.ID, byCode.ID)

	groups, err := repo.ListGroupsForUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Forecasters", groups[0].Name)
	assert.Equal(t, models.RoleAdmin, groups[0].Role)
}

func TestMemberships(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	admin := testutil.CreateTestUser(t, repo, "admin@example.com")
	member := testutil.CreateTestUser(t, repo, "member@example.com")
	group := testutil.CreateTestGroup(t, repo, admin.ID, "G")

	testutil.AddTestMember(t, repo, group.ID, member.ID, models.RoleMember)

	err := repo.AddMembership(ctx, models.Membership{
		UserID: member.ID, GroupID: group.ID, Role: models.RoleMember, JoinedAt: t0,
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	members, err := repo.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, admin.ID, members[0].UserID)
	assert.Equal(t, member.ID, members[1].UserID)
	assert.Equal(t, "member@example.com", members[1].Email)

	isMember, err := store.IsMember(ctx, repo, group.ID, member.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	require.NoError(t, repo.RemoveMembership(ctx, group.ID, member.ID))
	isMember, err = store.IsMember(ctx, repo, group.ID, member.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	assert.ErrorIs(t, repo.RemoveMembership(ctx, group.ID, member.ID), store.ErrNotFound)
}

func TestListPredictionsStatusFilter(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "a@example.com")
	group := testutil.CreateTestGroup(t, repo, user.ID, "G")

	older := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0, t0.Add(100*time.Second))
	newer := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0.Add(time.Second), t0.Add(100*time.Second))
	testutil.ResolveTestPrediction(t, repo, older.ID, models.StatusResolvedYes, t0.Add(200*time.Second))

	all, err := repo.ListPredictions(ctx, group.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	open := models.StatusOpen
	onlyOpen, err := repo.ListPredictions(ctx, group.ID, &open)
	require.NoError(t, err)
	require.Len(t, onlyOpen, 1)
	assert.Equal(t, newer.ID, onlyOpen[0].ID)
}

func TestResolvePredictionOnce(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "a@example.com")
	group := testutil.CreateTestGroup(t, repo, user.ID, "G")
	p := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0, t0.Add(100*time.Second))

	resolvedAt := t0.Add(150 * time.Second)
	resolved, err := repo.ResolvePrediction(ctx, p.ID, models.StatusResolvedNo, resolvedAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolvedNo, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.True(t, resolved.ResolvedAt.Equal(resolvedAt))

	_, err = repo.ResolvePrediction(ctx, p.ID, models.StatusResolvedYes, resolvedAt)
	assert.ErrorIs(t, err, store.ErrAlreadyResolved)

	stored, err := repo.GetPrediction(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolvedNo, stored.Status, "second resolve must not change the outcome")

	_, err = repo.ResolvePrediction(ctx, "missing", models.StatusResolvedYes, resolvedAt)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.ResolvePrediction(ctx, p.ID, models.StatusOpen, resolvedAt)
	assert.Error(t, err)
}

func TestDeletePredictionCascadesForecasts(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "a@example.com")
	group := testutil.CreateTestGroup(t, repo, user.ID, "G")
	p := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0, t0.Add(100*time.Second))
	f := testutil.CreateTestForecast(t, repo, p.ID, user.ID, 0.6, t0.Add(10*time.Second))

	require.NoError(t, repo.DeletePrediction(ctx, p.ID))

	_, err := repo.GetPrediction(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetForecast(ctx, f.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, repo.DeletePrediction(ctx, p.ID), store.ErrNotFound)
}

func TestForecastUniquenessAndUpdate(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "a@example.com")
	group := testutil.CreateTestGroup(t, repo, user.ID, "G")
	p := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0, t0.Add(100*time.Second))
	created := t0.Add(10 * time.Second)
	f := testutil.CreateTestForecast(t, repo, p.ID, user.ID, 0.6, created)

	err := repo.CreateForecast(ctx, models.Forecast{
		ID: uuid.NewString(), PredictionID: p.ID, UserID: user.ID, Probability: 0.1,
		CreatedAt: created, UpdatedAt: created,
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	reason := "changed my mind"
	updated, err := repo.UpdateForecast(ctx, f.ID, 0.2, &reason, t0.Add(90*time.Second))
	require.NoError(t, err)
	assert.InDelta(t, 0.2, updated.Probability, 1e-12)
	require.NotNil(t, updated.Reasoning)
	assert.Equal(t, reason, *updated.Reasoning)
	assert.True(t, updated.CreatedAt.Equal(created), "edits keep the original created_at")
	assert.True(t, updated.UpdatedAt.Equal(t0.Add(90*time.Second)))

	forecasts, err := repo.ListForecastsForPrediction(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)

	_, err = repo.UpdateForecast(ctx, "missing", 0.2, nil, t0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateForecastRejectedOnceResolved(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, repo, "a@example.com")
	group := testutil.CreateTestGroup(t, repo, user.ID, "G")
	p := testutil.CreateTestPrediction(t, repo, group.ID, user.ID, t0, t0.Add(100*time.Second))
	f := testutil.CreateTestForecast(t, repo, p.ID, user.ID, 0.6, t0.Add(10*time.Second))
	testutil.ResolveTestPrediction(t, repo, p.ID, models.StatusResolvedYes, t0.Add(20*time.Second))

	_, err := repo.UpdateForecast(ctx, f.ID, 0.99, nil, t0.Add(30*time.Second))
	assert.ErrorIs(t, err, store.ErrAlreadyResolved)

	stored, err := repo.GetForecast(ctx, f.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, stored.Probability, 1e-12, "resolved forecasts keep their scored value")
}

func TestForecastRecords(t *testing.T) {
	repo := testutil.SetupTestStore(t)
	ctx := context.Background()
	alice := testutil.CreateTestUser(t, repo, "alice@example.com")
	bob := testutil.CreateTestUser(t, repo, "bob@example.com")
	g1 := testutil.CreateTestGroup(t, repo, alice.ID, "One")
	g2 := testutil.CreateTestGroup(t, repo, alice.ID, "Two")
	testutil.AddTestMember(t, repo, g1.ID, bob.ID, models.RoleMember)

	p1 := testutil.CreateTestPrediction(t, repo, g1.ID, alice.ID, t0, t0.Add(100*time.Second))
	p2 := testutil.CreateTestPrediction(t, repo, g2.ID, alice.ID, t0, t0.Add(100*time.Second))
	testutil.CreateTestForecast(t, repo, p1.ID, alice.ID, 0.8, t0.Add(10*time.Second))
	testutil.CreateTestForecast(t, repo, p2.ID, alice.ID, 0.3, t0.Add(20*time.Second))
	testutil.CreateTestForecast(t, repo, p1.ID, bob.ID, 0.4, t0.Add(30*time.Second))
	testutil.ResolveTestPrediction(t, repo, p1.ID, models.StatusResolvedYes, t0.Add(200*time.Second))

	all, err := repo.ListForecastRecordsForUser(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, p2.ID, all[0].Prediction.ID, "newest first")

	inG1, err := repo.ListForecastRecordsForUser(ctx, alice.ID, g1.ID)
	require.NoError(t, err)
	require.Len(t, inG1, 1)
	rec := inG1[0]
	assert.Equal(t, p1.ID, rec.Forecast.PredictionID)
	assert.Equal(t, models.StatusResolvedYes, rec.Prediction.Status)
	assert.InDelta(t, 0.8, rec.Forecast.Probability, 1e-12)
	assert.True(t, rec.Prediction.ResolutionDate.Equal(t0.Add(100*time.Second)))

	byUser, err := repo.ListForecastRecordsForGroup(ctx, g1.ID)
	require.NoError(t, err)
	assert.Len(t, byUser[alice.ID], 1)
	assert.Len(t, byUser[bob.ID], 1)

	resolved, err := repo.ListResolvedPredictionIDs(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{p1.ID: {}}, resolved)

	resolved, err = repo.ListResolvedPredictionIDs(ctx, g2.ID)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}
