package rebulk

// DictOptions controls how matches are projected into a property mapping.
type DictOptions struct {
	// Advanced reports each value with its span, raw text and tags.
	Advanced bool
	// SingleValue keeps only the first distinct value per property.
	SingleValue bool
	// EnforceList reports every property as a list.
	EnforceList bool
}

// Detail is the advanced form of a projected value.
type Detail struct {
	Value any      `json:"value" yaml:"value"`
	Raw   string   `json:"raw" yaml:"raw"`
	Start int      `json:"start" yaml:"start"`
	End   int      `json:"end" yaml:"end"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Fielder is implemented by composite values exposing named sub-values.
type Fielder interface {
	Field(name string) (any, bool)
}

type group struct {
	name    string
	values  []any
	matches []*Match
}

// ToDict projects the public named matches into a property mapping. It does
// not modify the collection.
func (ms *Matches) ToDict(opts DictOptions) map[string]any {
	var groups []*group
	index := make(map[string]*group)

	add := func(name string, value any, m *Match) {
		g, ok := index[name]
		if !ok {
			g = &group{name: name}
			index[name] = g
			groups = append(groups, g)
		}
		if containsValue(g.values, value) {
			return
		}
		g.values = append(g.values, value)
		g.matches = append(g.matches, m)
	}

	for _, m := range ms.matches {
		if m.Private || m.Name == "" {
			continue
		}
		add(m.Name, m.Value, m)
		if season, episode, ok := seasonEpisode(m.Value); ok {
			add("season", season, m)
			add("episode", episode, m)
		}
	}

	out := make(map[string]any, len(groups))
	for _, g := range groups {
		values := g.values
		if opts.Advanced {
			values = make([]any, len(g.values))
			for i, v := range g.values {
				values[i] = detail(g.matches[i], v)
			}
		}

		switch {
		case opts.SingleValue:
			out[g.name] = values[0]
		case opts.EnforceList || len(values) > 1:
			out[g.name] = values
		default:
			out[g.name] = values[0]
		}
	}
	return out
}

func detail(m *Match, value any) Detail {
	return Detail{
		Value: value,
		Raw:   m.Raw,
		Start: m.Start,
		End:   m.End,
		Tags:  append([]string(nil), m.Tags...),
	}
}

// seasonEpisode extracts scalar season and episode fields from a composite
// value.
func seasonEpisode(v any) (any, any, bool) {
	switch c := v.(type) {
	case Fielder:
		s, ok1 := c.Field("season")
		e, ok2 := c.Field("episode")
		return s, e, ok1 && ok2
	case map[string]any:
		s, ok1 := c["season"]
		e, ok2 := c["episode"]
		return s, e, ok1 && ok2
	}
	return nil, nil, false
}
