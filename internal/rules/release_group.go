package rules

import (
	"slices"
	"strings"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

// releaseGroupRules find the group in "...x264-GROUP.mkv", "[GROUP] Show" and
// "Show [GROUP].mkv".
func releaseGroupRules(adv config.Advanced) []*rebulk.Rule {
	var exts []string
	for _, k := range sortedKeys(adv.Container) {
		exts = append(exts, quoted(adv.Container[k])...)
	}
	ext := `(?:\.[\p{L}\p{N}]{2,4})?$`
	if len(exts) > 0 {
		ext = `(?:\.` + alternation(exts) + `)?$`
	}

	validate := releaseGroupValidator(adv.CommonWords)

	return []*rebulk.Rule{
		{
			Name:      "release_group",
			Pattern:   `-(?P<` + span + `>[\p{L}\p{N}]+)(?:\[[^\]/\\]*\])?` + ext,
			Group:     span,
			Validator: validate,
		},
		{
			Name:      "release_group",
			Pattern:   `(?:^|[/\\])\[(?P<` + span + `>[^\]/\\]+)\]`,
			Group:     span,
			Tags:      []string{"leading"},
			Formatter: trim,
			Validator: validate,
		},
		{
			Name:      "release_group",
			Pattern:   `\[(?P<` + span + `>[^\]\s/\\]+)\]` + ext,
			Group:     span,
			Tags:      []string{"trailing"},
			Validator: validate,
		},
	}
}

func trim(v any) (any, error) {
	return strings.TrimSpace(v.(string)), nil
}

func releaseGroupValidator(common []string) rebulk.Validator {
	return func(m *rebulk.Match) (bool, error) {
		group, _ := m.Value.(string)
		if group == "" || isDigits(group) {
			return false, nil
		}
		return !slices.Contains(common, strings.ToLower(group)), nil
	}
}
