package rules

import (
	"strings"

	"github.com/shapedtime/guessit/internal/rebulk"
)

// containerRules match the trailing extension, one rule per kind. The kind
// (videos, subtitles...) becomes the tag of the match.
func containerRules(kinds map[string][]string) []*rebulk.Rule {
	var out []*rebulk.Rule
	for _, kind := range sortedKeys(kinds) {
		exts := kinds[kind]
		if len(exts) == 0 {
			continue
		}
		out = append(out, &rebulk.Rule{
			Name:      "container",
			Pattern:   `\.(?P<` + span + `>` + alternation(quoted(exts)) + `)$`,
			Group:     span,
			Tags:      []string{kind},
			Formatter: lower,
		})
	}
	return out
}

func lower(v any) (any, error) {
	return strings.ToLower(v.(string)), nil
}
