package paths

// Set is a deduplicated set of normalized paths that remembers insertion order.
type Set struct {
	order []string
	seen  map[string]struct{}
}

// NewSet creates a set holding the given paths.
func NewSet(paths ...string) *Set {
	s := &Set{seen: make(map[string]struct{})}
	s.Add(paths...)
	return s
}

// Add normalizes and inserts paths. Empty paths and duplicates are ignored.
func (s *Set) Add(paths ...string) {
	for _, p := range paths {
		p = Normalize(p)
		if p == "" {
			continue
		}
		if _, ok := s.seen[p]; ok {
			continue
		}
		s.seen[p] = struct{}{}
		s.order = append(s.order, p)
	}
}

// Union adds every path of other.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	s.Add(other.order...)
}

// Contains reports whether p (after normalization) is in the set.
func (s *Set) Contains(p string) bool {
	_, ok := s.seen[Normalize(p)]
	return ok
}

// Len returns the number of paths.
func (s *Set) Len() int {
	return len(s.order)
}

// Slice returns the paths in insertion order.
func (s *Set) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
