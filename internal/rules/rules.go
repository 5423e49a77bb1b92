// Package rules turns the advanced configuration tables into the rebulk rule
// set used to guess filename properties.
package rules

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

// span is the capture group bounding the reported part of a word pattern.
const span = "v"

// Build registers every property table of adv, in order, on a new engine.
// A malformed table entry disables only its own rule; the error is returned
// alongside the usable engine.
func Build(adv config.Advanced) (*rebulk.Rebulk, error) {
	tiers := adv.Priorities
	if len(tiers) == 0 {
		tiers = config.DefaultPriorities()
	}

	r := rebulk.New(
		rebulk.WithPriorities(rebulk.NewPriorities(tiers...)),
		rebulk.WithOptions(rebulk.Options{
			IgnoreCase:    true,
			MaxIterations: adv.MaxIterations,
		}),
	)

	var errs []error
	for _, table := range [][]*rebulk.Rule{
		groupMarkers(adv.Groups),
		episodeRules(adv.Episodes),
		containerRules(adv.Container),
		wordRules("source", []string{"source"}, adv.Source),
		wordRules("video_codec", []string{"video-codec"}, adv.VideoCodec),
		wordRules("audio_codec", []string{"audio-codec"}, adv.AudioCodec),
		screenSizeRules(adv.ScreenSize),
		dateRules(),
		websiteRules(adv.Website),
		titleRules(adv),
		crc32Rules(),
		releaseGroupRules(adv),
		wordRules("episode_details", []string{"episode-details"}, adv.EpisodeDetails),
		wordRules("other", []string{"other"}, adv.Other),
	} {
		if err := r.AddRules(table...); err != nil {
			errs = append(errs, err)
		}
	}

	r.AddProcessors(promoteExpectedTitles, dropFallbackTitles, renameCounts)

	return r, errors.Join(errs...)
}

// word wraps alt so it only matches after a separator. The leading separator
// is consumed but left out of the match span; rules built on it set
// Boundary for the trailing one.
func word(alt string) string {
	return `(?:^|[^\p{L}\p{N}])(?P<` + span + `>` + alt + `)`
}

// alternation joins fragments longest first so that longer spellings win
// inside one pattern.
func alternation(fragments []string) string {
	sorted := append([]string(nil), fragments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return "(?:" + strings.Join(sorted, "|") + ")"
}

func quoted(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// wordRules creates one rule per canonical value of table, matching any of
// its aliases as a whole word.
func wordRules(name string, tags []string, table map[string][]string) []*rebulk.Rule {
	var out []*rebulk.Rule
	for _, value := range sortedKeys(table) {
		aliases := table[value]
		if len(aliases) == 0 {
			continue
		}
		out = append(out, &rebulk.Rule{
			Name:    name,
			Pattern:  word(alternation(aliases)),
			Group:    span,
			Value:    value,
			Tags:     tags,
			Boundary: true,
		})
	}
	return out
}

func allAliases(tables ...map[string][]string) []string {
	var out []string
	for _, t := range tables {
		for _, k := range sortedKeys(t) {
			out = append(out, t[k]...)
		}
	}
	return out
}
