package exam

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelcat/internal/api"
)

func TestGuard_DefaultBudget(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 0)
	assert.Equal(t, DefaultMaxPlays, g.MaxPlays())

	g = NewPlaybackGuard("listen-1", 3)
	assert.Equal(t, 3, g.MaxPlays())
}

func TestGuard_SerializesConcurrentAttempts(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 2)

	// Two attempts within the same pending window: exactly one request.
	require.True(t, g.Attempt())
	require.False(t, g.Attempt())
	require.True(t, g.Pending())

	g.Settle("listen-1", &api.PlayResult{Plays: 1, MaxPlays: 2}, nil)
	assert.False(t, g.Pending())
	assert.Equal(t, 1, g.Plays())

	// Budget not exhausted: a later attempt goes through.
	require.True(t, g.Attempt())
	g.Settle("listen-1", &api.PlayResult{Plays: 2, MaxPlays: 2}, nil)
	assert.Equal(t, 2, g.Plays())

	// Local short-circuit once the budget is visibly spent: no network call.
	assert.False(t, g.Attempt())
	assert.True(t, g.Exhausted())
}

func TestGuard_ServerCountIsAuthoritative(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 2)
	require.True(t, g.Attempt())

	// Server reports a higher count than local accounting would predict.
	g.Settle("listen-1", &api.PlayResult{Plays: 2, MaxPlays: 2}, nil)
	assert.Equal(t, 2, g.Plays())
	assert.False(t, g.Attempt())
}

func TestGuard_FailureBlocksPermanently(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 2)
	require.True(t, g.Attempt())
	g.Settle("listen-1", nil, errors.New("Max plays reached"))

	assert.True(t, g.Blocked())
	assert.False(t, g.Pending())
	for range 5 {
		assert.False(t, g.Attempt())
	}
}

func TestGuard_PendingClearsOnFailure(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 2)
	require.True(t, g.Attempt())
	g.Settle("listen-1", nil, errors.New("boom"))
	assert.False(t, g.Pending())
}

func TestGuard_SupersededItemIgnored(t *testing.T) {
	g := NewPlaybackGuard("listen-2", 2)
	require.True(t, g.Attempt())

	// Response for the previous item arrives late: fully ignored, the
	// in-flight state of the current guard is untouched.
	g.Settle("listen-1", &api.PlayResult{Plays: 2, MaxPlays: 2}, nil)
	assert.True(t, g.Pending())
	assert.Equal(t, 0, g.Plays())

	g.Settle("listen-1", nil, errors.New("late failure"))
	assert.False(t, g.Blocked())

	g.Settle("listen-2", &api.PlayResult{Plays: 1, MaxPlays: 2}, nil)
	assert.Equal(t, 1, g.Plays())
}

func TestGuard_FreshGuardStartsClean(t *testing.T) {
	g := NewPlaybackGuard("listen-1", 2)
	require.True(t, g.Attempt())
	g.Settle("listen-1", nil, errors.New("exhausted"))
	require.True(t, g.Blocked())

	// Same underlying item re-presented: a fresh guard, zero plays,
	// un-blocked.
	g2 := NewPlaybackGuard("listen-1", 2)
	assert.False(t, g2.Blocked())
	assert.Equal(t, 0, g2.Plays())
	assert.True(t, g2.Attempt())
}
