package rebulk

import "sort"

// Predicate filters matches in query helpers. A nil predicate accepts all.
type Predicate func(m *Match) bool

func (p Predicate) accept(m *Match) bool {
	return p == nil || p(m)
}

// Matches is the ordered result of one engine run over an input string.
type Matches struct {
	input   string
	matches []*Match
	markers *Markers
}

// NewMatches creates an empty collection bound to input.
func NewMatches(input string) *Matches {
	return &Matches{
		input:   input,
		markers: NewMarkers(),
	}
}

// Input returns the string the matches refer to.
func (ms *Matches) Input() string {
	return ms.input
}

// Markers returns the private marker registry of this run.
func (ms *Matches) Markers() *Markers {
	return ms.markers
}

// Add appends m to the collection. Nil and empty spans are ignored.
func (ms *Matches) Add(m *Match) {
	if m == nil || m.End <= m.Start {
		return
	}
	ms.matches = append(ms.matches, m)
}

// Remove drops m from the collection. It reports whether m was present.
func (ms *Matches) Remove(m *Match) bool {
	for i, c := range ms.matches {
		if c == m {
			ms.matches = append(ms.matches[:i], ms.matches[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a copy of the matches in collection order.
func (ms *Matches) All() []*Match {
	return append([]*Match(nil), ms.matches...)
}

// Len returns the number of matches.
func (ms *Matches) Len() int {
	return len(ms.matches)
}

// Named returns matches with the given property name.
func (ms *Matches) Named(name string, pred Predicate) []*Match {
	return ms.filter(func(m *Match) bool {
		return m.Name == name && pred.accept(m)
	})
}

// Tagged returns matches carrying tag.
func (ms *Matches) Tagged(tag string, pred Predicate) []*Match {
	return ms.filter(func(m *Match) bool {
		return m.HasTag(tag) && pred.accept(m)
	})
}

// Range returns matches lying fully inside [start, end).
func (ms *Matches) Range(start, end int, pred Predicate) []*Match {
	return ms.filter(func(m *Match) bool {
		return m.Start >= start && m.End <= end && pred.accept(m)
	})
}

// RangeAt returns the index-th match of Range, or nil.
func (ms *Matches) RangeAt(start, end int, pred Predicate, index int) *Match {
	return at(ms.Range(start, end, pred), index)
}

// Previous returns the index-th match ending at or before m starts, closest
// first.
func (ms *Matches) Previous(m *Match, pred Predicate, index int) *Match {
	candidates := ms.filter(func(c *Match) bool {
		return c.End <= m.Start && pred.accept(c)
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].End > candidates[j].End
	})
	return at(candidates, index)
}

// Next returns the index-th match starting at or after m ends, closest first.
func (ms *Matches) Next(m *Match, pred Predicate, index int) *Match {
	candidates := ms.filter(func(c *Match) bool {
		return c.Start >= m.End && pred.accept(c)
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})
	return at(candidates, index)
}

// Holes returns the parts of [start, end) not covered by any match. Each hole
// is an anonymous match whose raw text and value are the uncovered substring.
func (ms *Matches) Holes(start, end int) []*Match {
	start = max(start, 0)
	end = min(end, len(ms.input))
	if start >= end {
		return nil
	}

	covering := ms.filter(func(m *Match) bool {
		return m.End > start && m.Start < end
	})
	sort.SliceStable(covering, func(i, j int) bool {
		return covering[i].Start < covering[j].Start
	})

	var holes []*Match
	pos := start
	for _, m := range covering {
		if m.Start > pos {
			holes = append(holes, NewMatch(pos, m.Start, ms.input[pos:m.Start]))
		}
		pos = max(pos, m.End)
	}
	if pos < end {
		holes = append(holes, NewMatch(pos, end, ms.input[pos:end]))
	}

	return holes
}

func (ms *Matches) filter(keep func(*Match) bool) []*Match {
	var out []*Match
	for _, m := range ms.matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func at(list []*Match, index int) *Match {
	if index < 0 || index >= len(list) {
		return nil
	}
	return list[index]
}

// sortBySpan orders matches by start, then end.
func sortBySpan(list []*Match) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Start != list[j].Start {
			return list[i].Start < list[j].Start
		}
		return list[i].End < list[j].End
	})
}
