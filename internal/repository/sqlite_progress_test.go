package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/neurofit/internal/domain"
	"github.com/alexanderramin/neurofit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProgressRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteUserProgressRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "local")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserProgressRepo_UpsertInsertsThenUpdates(t *testing.T) {
	repo := NewSQLiteUserProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	last := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)
	p := &domain.UserProgress{
		UserID:            "local",
		CompletedWorkouts: 1,
		ActivityMinutes:   20,
		StreakDays:        1,
		FocusScore:        42,
		LastCompletedAt:   &last,
	}
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CompletedWorkouts)
	assert.Equal(t, 42.0, got.FocusScore)
	require.NotNil(t, got.LastCompletedAt)
	assert.True(t, last.Equal(*got.LastCompletedAt))
	assert.False(t, got.UpdatedAt.IsZero())

	p.CompletedWorkouts = 2
	p.StreakDays = 2
	p.ActivityMinutes = 35
	require.NoError(t, repo.Upsert(ctx, p))

	got, err = repo.Get(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CompletedWorkouts)
	assert.Equal(t, 2, got.StreakDays)
	assert.Equal(t, 35, got.ActivityMinutes)
}

func TestUserProgressRepo_NilLastCompleted(t *testing.T) {
	repo := NewSQLiteUserProgressRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.UserProgress{UserID: "fresh"}))

	got, err := repo.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Nil(t, got.LastCompletedAt)
}
