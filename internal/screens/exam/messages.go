package exam

import (
	"time"

	"levelcat/internal/api"
)

// Every result message carries the generation token its request was issued
// under; the controller discards settlements from a superseded session.

// startedMsg is sent when the session start request settles.
type startedMsg struct {
	Gen int
	Res *api.StartResult
	Err error
}

// nextItemMsg is sent when a next-item request settles.
type nextItemMsg struct {
	Gen   int
	Item  *api.Item
	Pause *api.Pause
	Err   error
}

// resumedMsg is sent when a section resume request settles.
type resumedMsg struct {
	Gen int
	Err error
}

// answeredMsg is sent when an answer submission settles.
type answeredMsg struct {
	Gen int
	Res *api.AnswerResult
	Err error
}

// playedMsg is sent when a play authorization settles.
type playedMsg struct {
	Gen    int
	ItemID string
	Res    *api.PlayResult
	Err    error
}

// finishedMsg is sent when the finish request settles.
type finishedMsg struct {
	Gen int
	Res *api.FinishResult
	Err error
}

// timerTickMsg is sent every second to refresh the elapsed clock.
type timerTickMsg time.Time
