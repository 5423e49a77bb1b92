package rebulk

import (
	"sort"

	"github.com/rs/zerolog"
)

// resolve removes overlaps among public matches. Private matches pass
// through untouched. Within each contested region the winner is the match
// with the highest priority, then the longest span, then the earliest in
// discovery order (start ascending, longer first).
func resolve(list []*Match, prio *Priorities, log zerolog.Logger) []*Match {
	var private, public []*Match
	for _, m := range list {
		if m.Private {
			private = append(private, m)
		} else {
			public = append(public, m)
		}
	}

	// discovery order
	sort.SliceStable(public, func(i, j int) bool {
		if public[i].Start != public[j].Start {
			return public[i].Start < public[j].Start
		}
		return public[i].Len() > public[j].Len()
	})

	ranked := append([]*Match(nil), public...)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := prio.Of(ranked[i].Name), prio.Of(ranked[j].Name)
		if pi != pj {
			return pi > pj
		}
		return ranked[i].Len() > ranked[j].Len()
	})

	kept := make([]*Match, 0, len(ranked))
	for _, m := range ranked {
		if winner := firstOverlap(kept, m); winner != nil {
			log.Debug().
				Str("discarded", m.String()).
				Str("winner", winner.String()).
				Msg("conflict resolved")
			continue
		}
		kept = append(kept, m)
	}

	out := append(kept, private...)
	sortBySpan(out)
	return out
}

func firstOverlap(kept []*Match, m *Match) *Match {
	for _, k := range kept {
		if m.Overlaps(k) {
			return k
		}
	}
	return nil
}
