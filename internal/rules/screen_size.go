package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

func screenSizeRules(s config.ScreenSize) []*rebulk.Rule {
	var out []*rebulk.Rule

	add := func(value string, aliases ...string) {
		out = append(out, &rebulk.Rule{
			Name:     "screen_size",
			Pattern:  word(alternation(aliases)),
			Group:    span,
			Value:    value,
			Tags:     []string{"resolution"},
			Boundary: true,
		})
	}

	for _, h := range s.Progressive {
		add(h+"p", h+"p")
	}
	for _, h := range s.Interlaced {
		add(h+"i", h+"i")
	}
	for _, value := range sortedKeys(s.Aliases) {
		if aliases := s.Aliases[value]; len(aliases) > 0 {
			add(value, aliases...)
		}
	}

	out = append(out, &rebulk.Rule{
		Name:      "screen_size",
		Pattern:   word(`\d{3,4}x\d{3,4}`),
		Group:     span,
		Tags:      []string{"resolution", "dimensions"},
		Boundary:  true,
		Formatter: dimensions(s),
	})

	return out
}

// dimensions turns WIDTHxHEIGHT into a named size when the pair is known or
// the height is a standard progressive one. Anything else stays "WxH".
func dimensions(s config.ScreenSize) rebulk.Formatter {
	return func(v any) (any, error) {
		raw := strings.ToLower(v.(string))
		width, height, ok := strings.Cut(raw, "x")
		if !ok {
			return nil, fmt.Errorf("not a dimension: %q", raw)
		}

		if named, ok := s.Dimensions[raw]; ok {
			return named, nil
		}

		w, h := parseInt(width), parseInt(height)
		if h > 0 && slices.Contains(s.Progressive, height) && aspectOK(w, h) {
			return height + "p", nil
		}
		return raw, nil
	}
}

// aspectOK accepts the usual 4:3 to 2.39:1 frame shapes.
func aspectOK(w, h int) bool {
	ar := float64(w) / float64(h)
	return ar >= 1.333 && ar <= 2.4
}
