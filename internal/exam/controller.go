package exam

import (
	"errors"
	"time"

	"levelcat/internal/api"
)

// Action tells the caller which follow-up request to issue after a state
// transition settles.
type Action int

const (
	ActionNone Action = iota
	// ActionFetchNext asks the caller to request the next scoring unit.
	ActionFetchNext
	// ActionFinish asks the caller to close the session.
	ActionFinish
)

// AnswerFeedback carries the outcome of the most recent scored answer for
// the status line.
type AnswerFeedback struct {
	Correct bool
	Theta   float64
	SE      float64
}

var (
	ErrNoSession    = errors.New("no active session")
	ErrBusy         = errors.New("request already in flight")
	ErrWrongPhase   = errors.New("operation not valid in current phase")
	ErrNothingToAsk = errors.New("no option selected")
)

// Controller owns the session state machine. It performs no network I/O:
// Begin* methods validate and transition state before a request is issued,
// Handle* methods apply the settled result. Every Begin hands out the
// current generation token; Handle drops results whose token is stale
// (issued before a reset or restart), so a response from a superseded
// session can never be applied to a newer one.
type Controller struct {
	gen       int
	phase     Phase
	session   *Session
	item      *Item
	selection Selection
	guard     *PlaybackGuard
	timer     Timer

	fetchPending  bool
	resumePending bool
	finishPending bool

	lastAnswer *AnswerFeedback
}

// NewController creates a Controller in the Idle phase.
func NewController() *Controller {
	return &Controller{phase: PhaseIdle}
}

func (c *Controller) Phase() Phase          { return c.phase }
func (c *Controller) Generation() int       { return c.gen }
func (c *Controller) Session() *Session     { return c.session }
func (c *Controller) Item() *Item           { return c.item }
func (c *Controller) Guard() *PlaybackGuard { return c.guard }
func (c *Controller) Timer() *Timer         { return &c.timer }

// LastAnswer returns feedback for the most recent scored answer, nil
// before the first submission.
func (c *Controller) LastAnswer() *AnswerFeedback { return c.lastAnswer }

// Selected reports whether option i is selected on the current item.
func (c *Controller) Selected(i int) bool { return c.selection.Contains(i) }

// SelectionEmpty reports whether no option is selected.
func (c *Controller) SelectionEmpty() bool { return c.selection.Empty() }

// BeginStart transitions Idle → Starting and returns the generation token
// to tag the start request with.
func (c *Controller) BeginStart() (int, error) {
	if c.phase != PhaseIdle {
		return 0, ErrWrongPhase
	}
	c.gen++
	c.phase = PhaseStarting
	return c.gen, nil
}

// HandleStartResult applies the outcome of a start request. On success the
// session is created, the timer starts, and the controller parks in
// SectionPause with the server's upcoming-domain hint; the returned action
// asks the caller to fetch the first item immediately. On failure the
// controller returns to Idle.
func (c *Controller) HandleStartResult(gen int, res *api.StartResult, err error) (Action, error) {
	if gen != c.gen || c.phase != PhaseStarting {
		return ActionNone, nil
	}
	if err != nil {
		c.phase = PhaseIdle
		return ActionNone, err
	}
	now := time.Now()
	c.session = &Session{
		ID:          res.TestID,
		Theta:       res.Theta,
		SE:          res.SE,
		PauseDomain: res.UpcomingPart,
		StartedAt:   now,
	}
	c.timer.Start(now)
	c.phase = PhaseSectionPause
	return ActionFetchNext, nil
}

// BeginResume validates a resume request for the paused section. The phase
// stays SectionPause until the follow-up fetch resolves, so a failed
// resume is retryable without losing session identity.
func (c *Controller) BeginResume() (int, error) {
	if c.session == nil {
		return 0, ErrNoSession
	}
	if c.phase != PhaseSectionPause {
		return 0, ErrWrongPhase
	}
	if c.resumePending {
		return 0, ErrBusy
	}
	c.resumePending = true
	return c.gen, nil
}

// HandleResumeResult applies the outcome of a resume request. Success asks
// the caller to fetch the next item; failure surfaces the error and leaves
// the pause in place.
func (c *Controller) HandleResumeResult(gen int, err error) (Action, error) {
	if gen != c.gen {
		return ActionNone, nil
	}
	c.resumePending = false
	if err != nil {
		return ActionNone, err
	}
	return ActionFetchNext, nil
}

// BeginFetch validates a next-item request. Fetches are serialized: the
// phase transitions double as the mutual exclusion, plus an explicit latch
// for the window before the result arrives.
func (c *Controller) BeginFetch() (int, error) {
	if c.session == nil {
		return 0, ErrNoSession
	}
	if c.phase != PhaseSectionPause && c.phase != PhaseSubmitting {
		return 0, ErrWrongPhase
	}
	if c.fetchPending {
		return 0, ErrBusy
	}
	c.fetchPending = true
	return c.gen, nil
}

// HandleFetchResult applies a next-item outcome: a pause descriptor parks
// the controller in SectionPause, an item replaces the current one and
// moves to PresentingItem, and a failure while the session is unfinished
// is treated as the end-of-test signal rather than an error.
func (c *Controller) HandleFetchResult(gen int, item *api.Item, pause *api.Pause, err error) (Action, error) {
	if gen != c.gen {
		return ActionNone, nil
	}
	c.fetchPending = false
	if err != nil {
		if c.session == nil || c.session.Finished {
			return ActionNone, nil
		}
		return ActionFinish, nil
	}
	if pause != nil {
		c.item = nil
		c.guard = nil
		c.selection = Selection{}
		c.session.PauseDomain = pause.Domain
		c.session.PauseQuestions = pause.Questions
		c.phase = PhaseSectionPause
		return ActionNone, nil
	}
	next := NewItem(*item)
	c.item = next
	c.selection = NewSelection(next.Model)
	c.guard = nil
	if next.HasAudio() {
		c.guard = NewPlaybackGuard(next.ID, next.MaxPlays)
	}
	c.phase = PhasePresentingItem
	return ActionNone, nil
}

// ToggleOption flips the selected state of option i on the current item.
func (c *Controller) ToggleOption(i int) error {
	if c.phase != PhasePresentingItem || c.item == nil {
		return ErrWrongPhase
	}
	if i < 0 || i >= len(c.item.Options) {
		return errors.New("option index out of range")
	}
	c.selection.Toggle(i)
	return nil
}

// BeginSubmit builds the answer payload and transitions to Submitting,
// disabling further submission until the request settles.
func (c *Controller) BeginSubmit() (int, api.AnswerPayload, error) {
	if c.phase != PhasePresentingItem || c.item == nil {
		return 0, api.AnswerPayload{}, ErrWrongPhase
	}
	if c.selection.Empty() {
		return 0, api.AnswerPayload{}, ErrNothingToAsk
	}
	payload, err := BuildAnswer(c.item, c.selection.Indices())
	if err != nil {
		return 0, api.AnswerPayload{}, err
	}
	c.phase = PhaseSubmitting
	return c.gen, payload, nil
}

// HandleSubmitResult applies a scored answer. Success updates theta/SE and
// asks the caller either to fetch the next item or, when the response
// carries no next section, to finish. Failure re-enables submission with
// no session mutation.
func (c *Controller) HandleSubmitResult(gen int, res *api.AnswerResult, err error) (Action, error) {
	if gen != c.gen || c.phase != PhaseSubmitting {
		return ActionNone, nil
	}
	if err != nil {
		c.phase = PhasePresentingItem
		return ActionNone, err
	}
	c.session.Theta = res.Theta
	c.session.SE = res.SE
	c.lastAnswer = &AnswerFeedback{Correct: res.Correct, Theta: res.Theta, SE: res.SE}
	if res.NextPart == nil {
		return ActionFinish, nil
	}
	return ActionFetchNext, nil
}

// BeginFinish validates a finish request. Idempotent: returns false with
// no state change when the session is already finished, absent, or a
// finish is already in flight, so no second request is issued.
func (c *Controller) BeginFinish() (int, bool) {
	if c.session == nil || c.session.Finished || c.finishPending {
		return 0, false
	}
	c.finishPending = true
	c.phase = PhaseFinishing
	return c.gen, true
}

// HandleFinishResult applies a finish outcome. Success marks the session
// finished, stops the timer, and moves to Reviewing; applied reports
// whether that happened, so the caller can tell a settled finish from a
// stale one dropped after a reset. On failure the session stays
// un-finished and the caller may retry.
func (c *Controller) HandleFinishResult(gen int, res *api.FinishResult, err error) (applied bool, _ error) {
	if gen != c.gen {
		return false, nil
	}
	c.finishPending = false
	if err != nil {
		return false, err
	}
	c.session.Theta = res.Theta
	c.session.SE = res.SE
	c.session.Finished = true
	c.timer.Stop()
	c.phase = PhaseReviewing
	return true, nil
}

// PlayAttempt routes a play event through the playback guard. It reports
// whether an authorization request should be issued, alongside the
// generation token to tag it with.
func (c *Controller) PlayAttempt() (int, bool) {
	if c.phase != PhasePresentingItem || c.guard == nil {
		return 0, false
	}
	return c.gen, c.guard.Attempt()
}

// HandlePlayResult settles a play authorization against the guard. Stale
// generations and superseded items are discarded.
func (c *Controller) HandlePlayResult(gen int, itemID string, res *api.PlayResult, err error) error {
	if gen != c.gen || c.guard == nil {
		return nil
	}
	c.guard.Settle(itemID, res, err)
	if err != nil && itemID == c.guard.ItemID() {
		return err
	}
	return nil
}

// Reset tears down all session-scoped state back to Idle, regardless of
// the current phase. In-flight responses are invalidated by the
// generation bump.
func (c *Controller) Reset() {
	c.gen++
	c.phase = PhaseIdle
	c.session = nil
	c.item = nil
	c.guard = nil
	c.selection = Selection{}
	c.timer.Stop()
	c.fetchPending = false
	c.resumePending = false
	c.finishPending = false
	c.lastAnswer = nil
}
