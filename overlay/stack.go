package overlay

// stack is the ordered list of currently-open instances, bottom first.
// Nested overlays (a select inside a dialog) sit above their parents;
// closing an entry also closes everything above it.
type stack struct {
	entries []*instance
}

// push appends an instance at the top and records its depth.
func (s *stack) push(in *instance) {
	in.stackDepth = len(s.entries)
	s.entries = append(s.entries, in)
}

// remove detaches an instance and renumbers the depths of everything
// above it.
func (s *stack) remove(id InstanceID) {
	for i, in := range s.entries {
		if in.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			for j := i; j < len(s.entries); j++ {
				s.entries[j].stackDepth = j
			}
			return
		}
	}
}

// above returns the instances stacked above the given one, topmost last.
func (s *stack) above(id InstanceID) []*instance {
	for i, in := range s.entries {
		if in.id == id {
			out := make([]*instance, len(s.entries)-i-1)
			copy(out, s.entries[i+1:])
			return out
		}
	}
	return nil
}

// top returns the topmost open instance.
func (s *stack) top() (*instance, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// bottomUp returns a snapshot in stack order, bottom first.
func (s *stack) bottomUp() []*instance {
	out := make([]*instance, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *stack) len() int {
	return len(s.entries)
}
