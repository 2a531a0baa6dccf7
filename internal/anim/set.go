package anim

// Set tracks the handles belonging to one owner so they can be cancelled
// together.
type Set struct {
	handles []Handle
}

// Add registers h, dropping handles that already finished.
func (s *Set) Add(h Handle) {
	if h == nil {
		return
	}
	live := s.handles[:0]
	for _, x := range s.handles {
		if x.Active() {
			live = append(live, x)
		}
	}
	s.handles = append(live, h)
}

// CancelAll cancels every active handle and empties the set. It returns how
// many handles were still active.
func (s *Set) CancelAll() int {
	n := 0
	for _, h := range s.handles {
		if h.Active() {
			h.Cancel()
			n++
		}
	}
	s.handles = s.handles[:0]
	return n
}

// Active counts handles that have neither finished nor been cancelled.
func (s *Set) Active() int {
	n := 0
	for _, h := range s.handles {
		if h.Active() {
			n++
		}
	}
	return n
}
