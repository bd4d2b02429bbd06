package exam

import (
	"fmt"

	"levelcat/internal/api"
)

// BuildAnswer converts the selected option indices into the wire payload
// matching the item's scoring model: a single scalar index for binary
// items, the ordered index sequence for partial-credit items. An empty or
// mismatched selection is a caller precondition; the presenter disables
// submission until the selection is valid.
func BuildAnswer(item *Item, selected []int) (api.AnswerPayload, error) {
	if len(selected) == 0 {
		return api.AnswerPayload{}, fmt.Errorf("build answer for %s: empty selection", item.ID)
	}
	if item.Model == BinaryScoring {
		if len(selected) != 1 {
			return api.AnswerPayload{}, fmt.Errorf("build answer for %s: binary item needs exactly one selection, got %d", item.ID, len(selected))
		}
		return api.AnswerPayload{
			ItemID:   item.ID,
			Response: api.AnswerBody{Answer: selected[0]},
		}, nil
	}
	ordered := make([]int, len(selected))
	copy(ordered, selected)
	return api.AnswerPayload{
		ItemID:   item.ID,
		Response: api.AnswerBody{Answer: ordered},
	}, nil
}
