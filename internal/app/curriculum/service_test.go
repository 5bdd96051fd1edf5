package curriculum_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lernpfad/lernpfad/internal/app/curriculum"
	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/clock"
	"github.com/lernpfad/lernpfad/internal/infra/sqlite"
)

type fixture struct {
	svc *curriculum.Service
	eng *engagement.Service
	db  *sqlite.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.Fixed(time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC))
	eng := engagement.NewService(engagement.MustTracker(engagement.DefaultConfig()), db, clk, zap.NewNop())
	svc := curriculum.NewService(curriculum.NewTracker(curriculum.DefaultThreshold), db, eng, zap.NewNop())
	return fixture{svc: svc, eng: eng, db: db}
}

func (f fixture) loaded(t *testing.T, user string) domain.CurriculumState {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Begin(ctx, user, "Führung")
	require.NoError(t, err)
	state, err := f.svc.Load(ctx, user, domain.Curriculum{Modules: eightModules()})
	require.NoError(t, err)
	return state
}

func TestService_FreshLearnerIsOnboarding(t *testing.T) {
	f := newFixture(t)
	state, err := f.svc.State(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewOnboarding, state.View)
	assert.Nil(t, state.Curriculum)
}

func TestService_LoadAssignsID(t *testing.T) {
	f := newFixture(t)
	state := f.loaded(t, "anna")

	require.NotNil(t, state.Curriculum)
	assert.NotEmpty(t, state.Curriculum.ID)
	assert.Equal(t, "Führung", state.Curriculum.Goal)

	stored, err := f.svc.State(context.Background(), "anna")
	require.NoError(t, err)
	assert.Equal(t, state.Curriculum.ID, stored.Curriculum.ID)
	assert.Equal(t, domain.ViewDashboard, stored.View)
}

func TestService_CompleteAwardsXPOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loaded(t, "anna")

	res, err := f.svc.Complete(ctx, "anna", "v1")
	require.NoError(t, err)
	require.NotNil(t, res.Award)
	assert.Equal(t, 50, res.Award.Gained, "30 module XP + 20 daily bonus")
	require.NotNil(t, res.Suggestion)
	assert.Equal(t, "a1", res.Suggestion.ID)
	assert.Equal(t, 50, res.State.Progress.V)

	again, err := f.svc.Complete(ctx, "anna", "v1")
	require.NoError(t, err)
	assert.Nil(t, again.Award, "completing a module twice awards nothing")

	eng, err := f.eng.State(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, 50, eng.TotalXP)
}

func TestService_CompleteReachesCompleteView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loaded(t, "anna")

	var res curriculum.CompleteResult
	var err error
	for _, id := range []string{"v1", "u1", "c1", "a1"} {
		res, err = f.svc.Complete(ctx, "anna", id)
		require.NoError(t, err)
	}
	assert.Equal(t, domain.ViewComplete, res.State.View)

	unlocked, err := f.eng.Achievements().ListUnlocked(ctx, "anna")
	require.NoError(t, err)
	got := map[string]bool{}
	for _, u := range unlocked {
		got[u.ID] = true
	}
	assert.True(t, got["first_module"])
	assert.True(t, got["all_dimensions"])
	assert.True(t, got["vuca_complete"])
}

func TestService_CompleteErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, "anna", "v1")
	assert.True(t, errors.Is(err, domain.ErrNoCurriculum))

	f.loaded(t, "anna")
	_, err = f.svc.Complete(ctx, "anna", "zz")
	assert.True(t, errors.Is(err, domain.ErrModuleNotFound))
}

func TestService_OpenClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loaded(t, "anna")

	state, err := f.svc.Open(ctx, "anna", "c1", []byte(`{"text":"hallo"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCourse, state.View)

	stored, err := f.svc.State(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, "c1", stored.ActiveModuleID)
	assert.JSONEq(t, `{"text":"hallo"}`, string(stored.ActiveContent))

	state, err = f.svc.Close(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewDashboard, state.View)

	_, err = f.svc.Close(ctx, "anna")
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestService_Suggestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sug, err := f.svc.Suggestion(ctx, "anna", "v1")
	require.NoError(t, err)
	assert.Nil(t, sug, "no curriculum yet")

	f.loaded(t, "anna")
	sug, err = f.svc.Suggestion(ctx, "anna", "u2")
	require.NoError(t, err)
	require.NotNil(t, sug)
	assert.Equal(t, "c1", sug.ID)
}

func TestService_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loaded(t, "anna")

	require.NoError(t, f.svc.Reset(ctx, "anna"))
	state, err := f.svc.State(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewOnboarding, state.View)

	_, err = f.svc.Begin(ctx, "anna", "neu")
	assert.NoError(t, err, "begin is allowed again after reset")
}

func TestService_WithoutEngagement(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := curriculum.NewService(curriculum.NewTracker(0), db, nil, nil)
	ctx := context.Background()
	_, err = svc.Load(ctx, "anna", domain.Curriculum{Modules: eightModules()})
	require.NoError(t, err)

	res, err := svc.Complete(ctx, "anna", "v1")
	require.NoError(t, err)
	assert.Nil(t, res.Award)
}
