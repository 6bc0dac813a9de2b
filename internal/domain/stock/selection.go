package stock

// Selection is an ordered set of selected inventory ids.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// IDs returns a copy of the selected ids.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len reports the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when selected and adds it otherwise.
func (s Selection) Toggle(id string) Selection {
	if s.Has(id) {
		next := make([]string, 0, len(s.ids)-1)
		for _, v := range s.ids {
			if v != id {
				next = append(next, v)
			}
		}
		return Selection{ids: next}
	}
	return NewSelection(append(s.IDs(), id)...)
}

// ToggleAll clears the selection when every filtered id is already selected,
// otherwise it selects exactly the filtered ids.
func (s Selection) ToggleAll(filtered []string) Selection {
	for _, id := range filtered {
		if !s.Has(id) {
			return NewSelection(filtered...)
		}
	}
	return Selection{}
}
