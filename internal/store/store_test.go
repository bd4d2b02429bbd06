package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "levelcat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestResults_SaveAndList(t *testing.T) {
	st := openTestStore(t)
	repo := st.Results()
	ctx := context.Background()

	older := &ResultRecord{
		TestID:     "s1",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		StartLevel: "easy",
		Theta:      0.4, SE: 0.5, TScore: 54.0, CEFR: "B1",
		DurationSecs: 610,
		TakenAt:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &ResultRecord{
		TestID:     "s2",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		StartLevel: "middle",
		Theta:      0.9, SE: 0.35, TScore: 59.0, CEFR: "B2",
		DurationSecs: 540,
		TakenAt:      time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	assert.NotEmpty(t, older.ID)

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Most recent first.
	assert.Equal(t, "s2", got[0].TestID)
	assert.Equal(t, "B2", got[0].CEFR)
	assert.Equal(t, "s1", got[1].TestID)
	assert.Equal(t, 610, got[1].DurationSecs)
	assert.True(t, got[0].TakenAt.After(got[1].TakenAt))
}

func TestResults_ListEmpty(t *testing.T) {
	st := openTestStore(t)
	got, err := st.Results().List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResults_ListLimit(t *testing.T) {
	st := openTestStore(t)
	repo := st.Results()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, repo.Save(ctx, &ResultRecord{
			TestID:  "s",
			CEFR:    "A2",
			TakenAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
