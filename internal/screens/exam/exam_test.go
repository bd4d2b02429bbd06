package exam

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"levelcat/internal/api"
	ex "levelcat/internal/exam"
	"levelcat/internal/router"
	"levelcat/internal/screen"
)

// step executes cmd and feeds resulting messages back into the screen,
// following command chains. Timer ticks are dropped so the loop terminates.
func step(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Msg) {
	t.Helper()
	var last tea.Msg
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				s, last = step(t, s, c)
			}
			return s, last
		}
		if _, ok := msg.(timerTickMsg); ok {
			return s, last
		}
		switch msg.(type) {
		case router.ReplaceScreenMsg, router.PopScreenMsg:
			return s, msg
		}
		last = msg
		s, cmd = s.Update(msg)
	}
	return s, last
}

func key(t *testing.T, s screen.Screen, k string) (screen.Screen, tea.Msg) {
	t.Helper()
	var msg tea.KeyPressMsg
	if len(k) == 1 {
		msg = tea.KeyPressMsg{Code: rune(k[0]), Text: k}
	} else {
		msg = tea.KeyPressMsg{Code: keyCode(k)}
	}
	s, cmd := s.Update(msg)
	return step(t, s, cmd)
}

func keyCode(k string) rune {
	switch k {
	case "enter":
		return tea.KeyEnter
	case "space":
		return tea.KeySpace
	case "esc":
		return tea.KeyEscape
	}
	return 0
}

// newTestServer serves a scripted two-item session: a vocabulary pause, a
// binary item, then a listening item, then completion.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	answered := 0
	resumed := 0
	plays := 0

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/test/start", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"test_id": "t1", "theta": 0.0, "se": 1.0, "upcoming_part": "vocabulary",
		})
	})
	mux.HandleFunc("/api/test/t1/resume", func(w http.ResponseWriter, r *http.Request) {
		resumed++
		writeJSON(w, map[string]any{"domain": "vocabulary"})
	})
	mux.HandleFunc("/api/test/t1/next", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case resumed == 0:
			writeJSON(w, map[string]any{"pause": true, "domain": "vocabulary", "questions": 2})
		case answered == 0:
			writeJSON(w, map[string]any{
				"item_id": "i1", "stem": "Choose the synonym of happy",
				"options": []string{"glad", "sad", "tall", "cold"},
				"domain":  "vocabulary", "model": "2pl",
			})
		default:
			writeJSON(w, map[string]any{
				"item_id": "i2", "stem": "Listen and pick what you heard",
				"options": []string{"cat", "hat"},
				"domain":  "listening", "model": "2pl",
				"metadata":  map[string]string{"audio_url": "https://cdn.example.org/a.mp3"},
				"max_plays": 2,
			})
		}
	})
	mux.HandleFunc("/api/test/t1/answer", func(w http.ResponseWriter, r *http.Request) {
		answered++
		var next any = "listening"
		if answered >= 2 {
			next = nil
		}
		writeJSON(w, map[string]any{
			"theta": 0.3, "se": 0.8, "correct": true, "score": 1.0, "next_part": next,
		})
	})
	mux.HandleFunc("/api/test/t1/play", func(w http.ResponseWriter, r *http.Request) {
		plays++
		writeJSON(w, map[string]any{"plays": plays, "max_plays": 2})
	})
	mux.HandleFunc("/api/test/t1/finish", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"theta": 0.3, "se": 0.8, "t_score": 53.0, "cefr": "B1", "completed": true,
		})
	})
	return httptest.NewServer(mux)
}

func TestExamScreen_FullSession(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	es := New(api.New(server.URL, 5*time.Second), nil, Params{
		StartLevel: "middle", FirstName: "Ada", LastName: "Lovelace",
	})

	var s screen.Screen = es
	s, _ = step(t, s, es.Init())

	// Start settles into the vocabulary pause.
	require.Equal(t, ex.PhaseSectionPause, es.ctrl.Phase())
	require.NotNil(t, es.ctrl.Session())
	assert.Equal(t, "vocabulary", es.ctrl.Session().PauseDomain)

	// Resume brings up the first item.
	s, _ = key(t, s, "enter")
	require.Equal(t, ex.PhasePresentingItem, es.ctrl.Phase())
	require.NotNil(t, es.ctrl.Item())
	assert.Equal(t, "i1", es.ctrl.Item().ID)

	// Submitting with nothing selected is refused.
	s, _ = key(t, s, "enter")
	assert.Equal(t, ex.PhasePresentingItem, es.ctrl.Phase())
	assert.Equal(t, "Select an answer first", es.status)

	// Select option A and submit; the next (listening) item arrives.
	s, _ = key(t, s, "1")
	assert.True(t, es.ctrl.Selected(0))
	s, _ = key(t, s, "enter")
	require.Equal(t, ex.PhasePresentingItem, es.ctrl.Phase())
	require.NotNil(t, es.ctrl.Item())
	assert.Equal(t, "i2", es.ctrl.Item().ID)
	assert.True(t, es.ctrl.Item().HasAudio())

	// Play audio once; count reflects the server.
	s, _ = key(t, s, "p")
	require.NotNil(t, es.ctrl.Guard())
	assert.Equal(t, 1, es.ctrl.Guard().Plays())

	// Answer the last item; session finishes and the report replaces us.
	s, _ = key(t, s, "1")
	s, msg := key(t, s, "enter")
	assert.Equal(t, ex.PhaseReviewing, es.ctrl.Phase())
	assert.True(t, es.ctrl.Session().Finished)
	_, ok := msg.(router.ReplaceScreenMsg)
	assert.True(t, ok, "expected replacement with the report screen, got %T", msg)
	_ = s
}

func TestExamScreen_QuitConfirmResets(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	es := New(api.New(server.URL, 5*time.Second), nil, Params{StartLevel: "easy", FirstName: "A", LastName: "B"})
	var s screen.Screen = es
	s, _ = step(t, s, es.Init())
	require.Equal(t, ex.PhaseSectionPause, es.ctrl.Phase())

	// Esc opens the confirmation; N keeps the session.
	s, _ = key(t, s, "esc")
	assert.True(t, es.confirmQuit)
	s, _ = key(t, s, "n")
	assert.False(t, es.confirmQuit)
	assert.Equal(t, ex.PhaseSectionPause, es.ctrl.Phase())

	// Y discards the session and pops back.
	s, _ = key(t, s, "esc")
	_, msg := key(t, s, "y")
	assert.Equal(t, ex.PhaseIdle, es.ctrl.Phase())
	assert.Nil(t, es.ctrl.Session())
	_, ok := msg.(router.PopScreenMsg)
	assert.True(t, ok, "expected pop, got %T", msg)
}

func TestExamScreen_StaleFinishAfterQuitIgnored(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	es := New(api.New(server.URL, 5*time.Second), nil, Params{StartLevel: "easy", FirstName: "A", LastName: "B"})
	var s screen.Screen = es
	s, _ = step(t, s, es.Init())
	require.Equal(t, ex.PhaseSectionPause, es.ctrl.Phase())
	gen := es.ctrl.Generation()

	// Quit while a finish round-trip could still be in flight; its
	// settlement arrives after the reset and must be dropped whether it
	// carries an error or a result.
	s, _ = key(t, s, "esc")
	s, _ = key(t, s, "y")
	require.Nil(t, es.ctrl.Session())

	_, cmd := s.Update(finishedMsg{Gen: gen, Err: errors.New("connection reset")})
	assert.Nil(t, cmd)
	assert.Equal(t, ex.PhaseIdle, es.ctrl.Phase())
	assert.Empty(t, es.status)

	_, cmd = s.Update(finishedMsg{Gen: gen, Res: &api.FinishResult{Theta: 0.3, CEFR: "B1"}})
	assert.Nil(t, cmd)
	assert.Nil(t, es.ctrl.Session())
}

func TestExamScreen_FeedbackClearedOnNextItem(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	es := New(api.New(server.URL, 5*time.Second), nil, Params{StartLevel: "middle", FirstName: "A", LastName: "B"})
	var s screen.Screen = es
	s, _ = step(t, s, es.Init())
	s, _ = key(t, s, "enter")
	require.Equal(t, ex.PhasePresentingItem, es.ctrl.Phase())
	s, _ = key(t, s, "1")

	// Drive the submission by hand so the feedback is observable before
	// the follow-up fetch settles.
	gen, _, err := es.ctrl.BeginSubmit()
	require.NoError(t, err)
	next := "vocabulary"
	s, cmd := s.Update(answeredMsg{Gen: gen, Res: &api.AnswerResult{Theta: 0.3, SE: 0.8, Correct: true, NextPart: &next}})
	assert.Equal(t, "Correct", es.status)

	// The fetched item replaces the feedback with a clean status line.
	s, _ = step(t, s, cmd)
	require.Equal(t, ex.PhasePresentingItem, es.ctrl.Phase())
	assert.Empty(t, es.status)
	_ = s
}

func TestExamScreen_StartFailureRetry(t *testing.T) {
	fail := true
	mux := http.NewServeMux()
	mux.HandleFunc("/api/test/start", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"scoring service unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"test_id":"t1","theta":0,"se":1,"upcoming_part":"grammar"}`))
	})
	mux.HandleFunc("/api/test/t1/next", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pause":true,"domain":"grammar","questions":3}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	es := New(api.New(server.URL, 5*time.Second), nil, Params{StartLevel: "hard", FirstName: "A", LastName: "B"})
	var s screen.Screen = es
	s, _ = step(t, s, es.Init())

	// Failed start returns to Idle with the server detail verbatim.
	assert.Equal(t, ex.PhaseIdle, es.ctrl.Phase())
	assert.Equal(t, "scoring service unavailable", es.status)

	// Enter retries and succeeds.
	fail = false
	_, _ = key(t, s, "enter")
	assert.Equal(t, ex.PhaseSectionPause, es.ctrl.Phase())
	assert.Equal(t, "grammar", es.ctrl.Session().PauseDomain)
}
