package rules

import (
	"regexp"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

// GroupMarker names the markers registered for bracketed groups.
const GroupMarker = "group"

// groupMarkers registers one marker rule per opening/closing pair, e.g.
// "[...]" or "(...)".
func groupMarkers(g config.Groups) []*rebulk.Rule {
	starting, ending := []rune(g.Starting), []rune(g.Ending)

	var out []*rebulk.Rule
	for i := 0; i < len(starting) && i < len(ending); i++ {
		open := regexp.QuoteMeta(string(starting[i]))
		closing := regexp.QuoteMeta(string(ending[i]))
		out = append(out, &rebulk.Rule{
			Name:    GroupMarker,
			Pattern: open + `[^` + closing + `]*` + closing,
			Marker:  true,
		})
	}
	return out
}

func isGroup(m *rebulk.Match) bool {
	return m.Name == GroupMarker
}
