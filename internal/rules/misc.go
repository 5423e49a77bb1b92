package rules

import (
	"strings"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

func websiteRules(w config.Website) []*rebulk.Rule {
	if len(w.SafeTLDs) == 0 || len(w.SafeSubdomains) == 0 {
		return nil
	}
	return []*rebulk.Rule{{
		Name: "website",
		Pattern: word(alternation(quoted(w.SafeSubdomains)) + `\.[\p{L}\p{N}-]+\.` +
			alternation(quoted(w.SafeTLDs))),
		Group:     span,
		Boundary:  true,
		Formatter: lower,
	}}
}

func crc32Rules() []*rebulk.Rule {
	return []*rebulk.Rule{{
		Name:      "crc32",
		Pattern:   `[\[(](?P<` + span + `>[0-9a-f]{8})[\])]`,
		Group:     span,
		Formatter: upper,
		Validator: func(m *rebulk.Match) (bool, error) {
			return !isDigits(m.Raw), nil
		},
	}}
}

func upper(v any) (any, error) {
	return strings.ToUpper(v.(string)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
