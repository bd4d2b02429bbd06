package exam

import (
	"strings"

	"levelcat/internal/api"
)

// ScoringModel discriminates the response shape an item expects. The wire
// model string is mapped once, when the item is constructed.
type ScoringModel int

const (
	// BinaryScoring items (2PL/3PL) take exactly one selected option.
	BinaryScoring ScoringModel = iota
	// PartialCreditScoring items (GPCM) take one or more options in
	// selection order.
	PartialCreditScoring
)

// DomainListening is the section whose items may carry guarded audio.
const DomainListening = "listening"

// ParseScoringModel maps a wire model string to its ScoringModel.
func ParseScoringModel(model string) ScoringModel {
	if strings.EqualFold(model, "gpcm") {
		return PartialCreditScoring
	}
	return BinaryScoring
}

// Item is the client-side view of one test item. Immutable once built;
// replaced wholesale on each fetch.
type Item struct {
	ID         string
	Domain     string
	Model      ScoringModel
	Stem       string
	Options    []string
	Topic      string
	Difficulty string
	AudioURL   string
	MaxPlays   int
}

// NewItem builds an Item from its wire representation.
func NewItem(w api.Item) *Item {
	return &Item{
		ID:         w.ItemID,
		Domain:     w.Domain,
		Model:      ParseScoringModel(w.Model),
		Stem:       w.Stem,
		Options:    w.Options,
		Topic:      w.Metadata["topic"],
		Difficulty: w.Metadata["difficulty"],
		AudioURL:   w.Metadata["audio_url"],
		MaxPlays:   w.MaxPlays,
	}
}

// HasAudio reports whether the item carries replay-guarded audio.
func (i *Item) HasAudio() bool {
	return i.Domain == DomainListening && i.AudioURL != ""
}
