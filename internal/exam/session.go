package exam

import "time"

// Phase is the session controller's state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStarting
	PhaseSectionPause
	PhasePresentingItem
	PhaseSubmitting
	PhaseFinishing
	PhaseReviewing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseSectionPause:
		return "section-pause"
	case PhasePresentingItem:
		return "presenting-item"
	case PhaseSubmitting:
		return "submitting"
	case PhaseFinishing:
		return "finishing"
	case PhaseReviewing:
		return "reviewing"
	}
	return "unknown"
}

// Session is the server-identified test session. Theta and SE are mutated
// only from answer and finish responses; Finished flips true exactly once.
// Owned exclusively by the Controller.
type Session struct {
	ID             string
	Theta          float64
	SE             float64
	PauseDomain    string
	PauseQuestions int
	StartedAt      time.Time
	Finished       bool
}
