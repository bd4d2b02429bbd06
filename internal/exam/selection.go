package exam

// Selection tracks the option indices chosen for the current item, in the
// order they were selected. Binary-scored items hold at most one index;
// selecting another option clears the previous one.
type Selection struct {
	model   ScoringModel
	indices []int
}

// NewSelection creates an empty Selection for the given scoring model.
func NewSelection(model ScoringModel) Selection {
	return Selection{model: model}
}

// Toggle flips the selected state of option i. For binary items this
// replaces any prior choice; toggling the current choice deselects it.
func (s *Selection) Toggle(i int) {
	if s.model == BinaryScoring {
		if len(s.indices) == 1 && s.indices[0] == i {
			s.indices = nil
			return
		}
		s.indices = []int{i}
		return
	}
	for pos, idx := range s.indices {
		if idx == i {
			s.indices = append(s.indices[:pos], s.indices[pos+1:]...)
			return
		}
	}
	s.indices = append(s.indices, i)
}

// Contains reports whether option i is currently selected.
func (s *Selection) Contains(i int) bool {
	for _, idx := range s.indices {
		if idx == i {
			return true
		}
	}
	return false
}

// Indices returns the selected indices in selection order.
func (s *Selection) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool {
	return len(s.indices) == 0
}
