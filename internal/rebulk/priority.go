package rebulk

// Unranked marks the tier that property names missing from the table fall
// into.
const Unranked = "*"

// DefaultTiers is the standard priority order, highest first.
var DefaultTiers = [][]string{
	{"container"},
	{"video_codec", "audio_codec"},
	{"source"},
	{"screen_size"},
	{"year", "date"},
	{"season_episode", "season", "episode", "episode_details"},
	{Unranked},
	{"title"},
	{"cleanup"},
	{"path"},
}

// Priorities ranks property names for conflict resolution. Higher wins.
type Priorities struct {
	ranks    map[string]int
	fallback int
}

// NewPriorities builds a ranking from tiers ordered highest first. Names in
// the same tier share a rank. Without an Unranked tier, unknown names rank
// below every tier.
func NewPriorities(tiers ...[]string) *Priorities {
	p := &Priorities{ranks: make(map[string]int)}

	n := len(tiers)
	for i, tier := range tiers {
		rank := n - i
		for _, name := range tier {
			if name == Unranked {
				p.fallback = rank
				continue
			}
			p.ranks[name] = rank
		}
	}

	return p
}

// DefaultPriorities returns the ranking built from DefaultTiers.
func DefaultPriorities() *Priorities {
	return NewPriorities(DefaultTiers...)
}

// Of returns the rank of name.
func (p *Priorities) Of(name string) int {
	if p == nil {
		return 0
	}
	if rank, ok := p.ranks[name]; ok {
		return rank
	}
	return p.fallback
}
