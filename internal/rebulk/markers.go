package rebulk

// Markers holds structural spans (path segments, bracket groups) that rules
// can query but that never reach the output.
type Markers struct {
	list []*Match
}

// NewMarkers creates an empty registry.
func NewMarkers() *Markers {
	return &Markers{}
}

// Add registers marker, forcing it private.
func (mk *Markers) Add(marker *Match) {
	if marker == nil || marker.End <= marker.Start {
		return
	}
	marker.Private = true
	mk.list = append(mk.list, marker)
}

// All returns a copy of the registered markers.
func (mk *Markers) All() []*Match {
	return append([]*Match(nil), mk.list...)
}

// Named returns markers with the given name.
func (mk *Markers) Named(name string) []*Match {
	var out []*Match
	for _, m := range mk.list {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// AtMatch returns the index-th marker containing m, or nil.
func (mk *Markers) AtMatch(m *Match, pred Predicate, index int) *Match {
	var candidates []*Match
	for _, marker := range mk.list {
		if marker.Contains(m) && pred.accept(marker) {
			candidates = append(candidates, marker)
		}
	}
	return at(candidates, index)
}

// Starting returns markers beginning at pos.
func (mk *Markers) Starting(pos int, pred Predicate) []*Match {
	var out []*Match
	for _, marker := range mk.list {
		if marker.Start == pos && pred.accept(marker) {
			out = append(out, marker)
		}
	}
	return out
}
