package api

// StartRequest is the payload for starting a new test session.
type StartRequest struct {
	StartLevel string `json:"start_level"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// StartResult is the server response to a successful session start.
type StartResult struct {
	TestID       string  `json:"test_id"`
	Theta        float64 `json:"theta"`
	SE           float64 `json:"se"`
	UpcomingPart string  `json:"upcoming_part"`
}

// Item is a single test item as served by the scoring service.
type Item struct {
	ItemID   string            `json:"item_id"`
	Stem     string            `json:"stem"`
	Options  []string          `json:"options"`
	Domain   string            `json:"domain"`
	Model    string            `json:"model"`
	Metadata map[string]string `json:"metadata"`
	MaxPlays int               `json:"max_plays"`
}

// Pause is the inter-section gate descriptor returned by the next-item
// endpoint when the upcoming section has not been resumed yet.
type Pause struct {
	Domain    string `json:"domain"`
	Questions int    `json:"questions"`
}

// ResumeResult is the server response to resuming a paused section.
type ResumeResult struct {
	Domain string `json:"domain"`
}

// AnswerBody carries the selected answer: a single option index for
// binary-scored items, an ordered index list for partial-credit items.
type AnswerBody struct {
	Answer any `json:"answer"`
}

// AnswerPayload is the payload for submitting an answer.
type AnswerPayload struct {
	ItemID   string     `json:"item_id"`
	Response AnswerBody `json:"response"`
}

// AnswerResult is the server response to a scored answer. NextPart is nil
// when no further section remains and the test is complete.
type AnswerResult struct {
	Theta    float64 `json:"theta"`
	SE       float64 `json:"se"`
	Correct  bool    `json:"correct"`
	Score    float64 `json:"score"`
	NextPart *string `json:"next_part"`
}

// PlayResult is the server response to a play authorization. Plays is the
// authoritative replay count for the item.
type PlayResult struct {
	Plays    int `json:"plays"`
	MaxPlays int `json:"max_plays"`
}

// FinishResult is the server response to finishing a session.
type FinishResult struct {
	Theta     float64 `json:"theta"`
	SE        float64 `json:"se"`
	TScore    float64 `json:"t_score"`
	CEFR      string  `json:"cefr"`
	Completed bool    `json:"completed"`
}

// DomainResult is one row of the per-domain report breakdown.
type DomainResult struct {
	Domain       string  `json:"domain"`
	AverageScore float64 `json:"average_score"`
	CEFR         string  `json:"cefr"`
}

// Report is the final scoring report for a completed session. Domains
// preserve server-supplied order.
type Report struct {
	TestID  string         `json:"test_id"`
	Theta   float64        `json:"theta"`
	SE      float64        `json:"se"`
	TScore  float64        `json:"t_score"`
	CEFR    string         `json:"cefr"`
	Domains []DomainResult `json:"domains"`
}
