package rules

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

// Title tags.
const (
	TagTitle         = "title"
	TagTitleBracket  = "title-bracket"
	TagTitleFallback = "title-fallback"
)

var (
	titleSeparators = regexp.MustCompile(`[._\s-]+`)
	hyphenNumber    = regexp.MustCompile(`^\p{L}+-\d+$`)
)

// titleRules find the title in the last path segment: the text before the
// first technical token, optionally behind a bracketed group, and as a last
// resort any run of space separated words.
func titleRules(adv config.Advanced) []*rebulk.Rule {
	tokens := titleTokens(adv)
	tail := `(?:[^\p{L}\p{N}/\\][^/\\]*)?$`
	body := `(?P<` + span + `>[\p{L}\p{N}][^/\\]*?)[\s._-]+[\[(]?` + tokens + tail

	skip := append(slices.Clone(adv.Title.SkipWords), adv.CommonWords...)
	skip = append(skip, lowerAll(allAliases(adv.Source, adv.VideoCodec, adv.AudioCodec))...)

	return []*rebulk.Rule{
		{
			Name:      "title",
			Pattern:   `(?:^|[/\\])` + body,
			Group:     span,
			Tags:      []string{TagTitle},
			Formatter: cleanTitle,
			Validator: titleValidator(2, skip),
		},
		{
			Name:      "title",
			Pattern:   `(?:^|[/\\])[\[(][^\])/\\]*[\])][\s._-]*` + body,
			Group:     span,
			Tags:      []string{TagTitle, TagTitleBracket},
			Formatter: cleanTitle,
			Validator: titleValidator(2, skip),
		},
		{
			Name:      "title",
			Pattern:   `[\p{L}][\p{L}\p{N}' ]*[\p{L}\p{N}]`,
			Tags:      []string{TagTitleFallback},
			Formatter: cleanTitle,
			Validator: titleValidator(adv.Title.MinLength, skip),
		},
	}
}

// titleTokens is the alternation of everything that ends a title.
func titleTokens(adv config.Advanced) string {
	var sizes []string
	for _, h := range adv.ScreenSize.Progressive {
		sizes = append(sizes, h+"p")
	}
	for _, h := range adv.ScreenSize.Interlaced {
		sizes = append(sizes, h+"i")
	}

	var exts []string
	for _, k := range sortedKeys(adv.Container) {
		exts = append(exts, quoted(adv.Container[k])...)
	}

	tokens := []string{
		`(?:19|20)\d{2}`,
		`s\d{1,3}(?:[\s._-]*e\d{1,4}` + moreEpisodes(adv.Episodes.RangeSeparators) + `)?`,
		`\d{1,2}x\d{2,3}`,
		`e(?:p)?\d{1,4}`,
		`\d{3,4}x\d{3,4}`,
	}
	tokens = append(tokens, sizes...)
	tokens = append(tokens, quoted(adv.Episodes.SeasonWords)...)
	tokens = append(tokens, quoted(adv.Episodes.EpisodeWords)...)
	tokens = append(tokens, allAliases(adv.Source, adv.VideoCodec, adv.AudioCodec, adv.Other, adv.ScreenSize.Aliases)...)
	if len(exts) > 0 {
		tokens = append(tokens, alternation(exts)+`$`)
	}

	return alternation(tokens)
}

// cleanTitle turns separators into single spaces. A lone "Word-12" keeps its
// hyphen.
func cleanTitle(v any) (any, error) {
	raw := strings.TrimSpace(v.(string))
	if hyphenNumber.MatchString(raw) {
		return raw, nil
	}
	return strings.TrimSpace(titleSeparators.ReplaceAllString(raw, " ")), nil
}

func titleValidator(minLength int, skip []string) rebulk.Validator {
	return func(m *rebulk.Match) (bool, error) {
		title, _ := m.Value.(string)
		if utf8.RuneCountInString(title) < minLength || isDigits(strings.ReplaceAll(title, " ", "")) {
			return false, nil
		}
		return !slices.Contains(skip, strings.ToLower(title)), nil
	}
}

// dropFallbackTitles keeps fallback titles only when nothing better was
// found, and then only the first one.
func dropFallbackTitles(ms *rebulk.Matches) {
	titles := ms.Named("title", nil)

	anchored := slices.ContainsFunc(titles, func(m *rebulk.Match) bool {
		return !m.HasTag(TagTitleFallback)
	})

	kept := anchored
	for _, t := range titles {
		if !t.HasTag(TagTitleFallback) {
			continue
		}
		if kept || insideGroup(ms, t) {
			ms.Remove(t)
			continue
		}
		kept = true
	}
}

func insideGroup(ms *rebulk.Matches, m *rebulk.Match) bool {
	return ms.Markers().AtMatch(m, isGroup, 0) != nil
}

func lowerAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.ToLower(s)
	}
	return out
}

// ExpectedTitle names matches of titles known in advance. They rank in the
// unranked tier, above regular titles, and are renamed to title once
// resolved.
const ExpectedTitle = "expected_title"

// ExpectedTitles creates one rule per title the caller knows to be a title,
// matched with any separators between its words.
func ExpectedTitles(titles []string) []*rebulk.Rule {
	var out []*rebulk.Rule
	for _, title := range titles {
		words := strings.Fields(title)
		if len(words) == 0 {
			continue
		}
		out = append(out, &rebulk.Rule{
			Name:     ExpectedTitle,
			Pattern:  word(strings.Join(quoted(words), `[\s._-]+`)),
			Group:    span,
			Value:    title,
			Tags:     []string{TagTitle, "expected"},
			Boundary: true,
		})
	}
	return out
}

// promoteExpectedTitles replaces guessed titles by the expected ones.
func promoteExpectedTitles(ms *rebulk.Matches) {
	expected := ms.Named(ExpectedTitle, nil)
	if len(expected) == 0 {
		return
	}
	for _, t := range ms.Named("title", nil) {
		ms.Remove(t)
	}
	for _, m := range expected {
		m.Name = "title"
	}
}
