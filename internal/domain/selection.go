package domain

// Row is the selection state of one listed item
type Row[K comparable] struct {
	ID       K
	Selected bool
}

// Selection tracks the listed rows and at most one selected key.
// The zero value is an empty selection.
type Selection[K comparable] struct {
	rows     []Row[K]
	selected *K
}

// Reset replaces the listed rows. The current selection survives only if its
// key is still listed.
func (s *Selection[K]) Reset(ids []K) {
	s.rows = make([]Row[K], len(ids))
	keep := false
	for i, id := range ids {
		s.rows[i] = Row[K]{ID: id}
		if s.selected != nil && *s.selected == id {
			s.rows[i].Selected = true
			keep = true
		}
	}
	if !keep {
		s.selected = nil
	}
}

// Select marks id as the single selected row. It returns false if id is not listed.
func (s *Selection[K]) Select(id K) bool {
	found := false
	for i := range s.rows {
		s.rows[i].Selected = s.rows[i].ID == id
		if s.rows[i].Selected {
			found = true
		}
	}
	if !found {
		s.selected = nil
		return false
	}
	s.selected = &id
	return true
}

// Clear drops the selection but keeps the rows
func (s *Selection[K]) Clear() {
	s.selected = nil
	for i := range s.rows {
		s.rows[i].Selected = false
	}
}

// Remove drops a row, clearing the selection if it pointed at it
func (s *Selection[K]) Remove(id K) {
	out := s.rows[:0]
	for _, r := range s.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	s.rows = out
	if s.selected != nil && *s.selected == id {
		s.selected = nil
	}
}

// Selected returns the selected key, if any
func (s *Selection[K]) Selected() (K, bool) {
	if s.selected == nil {
		var zero K
		return zero, false
	}
	return *s.selected, true
}

// Rows returns a copy of the listed rows in order
func (s *Selection[K]) Rows() []Row[K] {
	out := make([]Row[K], len(s.rows))
	copy(out, s.rows)
	return out
}
