package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
)

// SeasonEpisode is the value of combined season and episode notations such
// as S01E02, S01E01-E03 or 1x05.
type SeasonEpisode struct {
	Season   int   `json:"season" yaml:"season"`
	Episode  int   `json:"episode" yaml:"episode"`
	Episodes []int `json:"episodes,omitempty" yaml:"episodes,omitempty"`
}

// Field exposes season and episode to the projection. Multi-episode values
// report the whole episode list.
func (se SeasonEpisode) Field(name string) (any, bool) {
	switch name {
	case "season":
		return se.Season, true
	case "episode":
		if len(se.Episodes) > 1 {
			return append([]int(nil), se.Episodes...), true
		}
		return se.Episode, true
	}
	return nil, false
}

func (se SeasonEpisode) String() string {
	if len(se.Episodes) > 1 {
		return fmt.Sprintf("S%02dE%02d-E%02d", se.Season, se.Episodes[0], se.Episodes[len(se.Episodes)-1])
	}
	return fmt.Sprintf("S%02dE%02d", se.Season, se.Episode)
}

var (
	digitsRe = regexp.MustCompile(`\d+`)
	seasonRe = regexp.MustCompile(`(?i)^s?(\d{1,3})`)
)

// rangeSeparators is the alternation of separators between the bounds of an
// episode range, or "" when ranges are disabled.
func rangeSeparators(seps []string) string {
	if len(seps) == 0 {
		return ""
	}
	return alternation(quoted(seps))
}

// moreEpisodes matches the episodes following the first one in SxxExx
// notations: E02E03, -E03, -03, to03.
func moreEpisodes(seps []string) string {
	next := `[\s._]*e`
	if rng := rangeSeparators(seps); rng != "" {
		next += `|` + rng + `e?`
	}
	return `(?:(?:` + next + `)\d{1,3})*`
}

// episodeRules builds the single authoritative episode table.
func episodeRules(e config.Episodes) []*rebulk.Rule {
	validate := seasonEpisodeValidator(e)
	parse := seasonEpisodeParser(e.RangeSeparators)

	nxnn := `x`
	if rng := rangeSeparators(e.RangeSeparators); rng != "" {
		nxnn += `|` + rng
	}

	out := []*rebulk.Rule{
		// S01E02, S01E01E02, S01E01-E03, S01.E01, S01E01to03
		{
			Name:      "season_episode",
			Pattern:   word(`s\d{1,3}[\s._-]*e\d{1,4}` + moreEpisodes(e.RangeSeparators)),
			Group:     span,
			Tags:      []string{"SxxExx"},
			Boundary:  true,
			Formatter: parse,
			Validator: validate,
		},
		// 1x05, 01x05-06, 1x05x06
		{
			Name:      "season_episode",
			Pattern:   word(`\d{1,2}x\d{2,3}(?:(?:` + nxnn + `)\d{2,3})*`),
			Group:     span,
			Tags:      []string{"NxNN"},
			Boundary:  true,
			Formatter: parse,
			Validator: validate,
		},
	}

	seasons := []string{`s\d{1,3}`}
	episodes := []string{`e(?:p)?\d{1,4}`}

	if len(e.SeasonWords) > 0 && len(e.EpisodeWords) > 0 {
		seasonWords := alternation(quoted(e.SeasonWords))
		episodeWords := alternation(quoted(e.EpisodeWords))

		// Season 1 Episode 2
		out = append(out, &rebulk.Rule{
			Name:      "season_episode",
			Pattern:   word(seasonWords + `[\s._-]*\d{1,3}[\s._-]*` + episodeWords + `[\s._-]*\d{1,4}`),
			Group:     span,
			Tags:      []string{"words"},
			Boundary:  true,
			Formatter: parseWordsSeasonEpisode,
			Validator: validate,
		})
	}
	if len(e.SeasonWords) > 0 {
		seasons = append(seasons, alternation(quoted(e.SeasonWords))+`[\s._-]*\d{1,3}`)
	}
	if len(e.EpisodeWords) > 0 {
		episodes = append(episodes, alternation(quoted(e.EpisodeWords))+`[\s._-]*\d{1,4}`)
	}

	if len(e.OfWords) > 0 {
		// "Episode 3 of 10", renamed by renameCounts
		out = append(out, &rebulk.Rule{
			Name:      "count",
			Pattern:   word(alternation(quoted(e.OfWords)) + `[\s._-]*\d{1,4}`),
			Group:     span,
			Boundary:  true,
			Formatter: lastNumber,
		})
	}

	return append(out,
		&rebulk.Rule{
			Name:      "season",
			Pattern:   word(alternation(seasons)),
			Group:     span,
			Boundary:  true,
			Formatter: lastNumber,
			Validator: maxValue(e.SeasonMaxRange),
		},
		&rebulk.Rule{
			Name:      "episode",
			Pattern:   word(alternation(episodes)),
			Group:     span,
			Boundary:  true,
			Formatter: lastNumber,
		},
		// anime style "Show - 01 [720p]"
		&rebulk.Rule{
			Name:      "episode",
			Pattern:   `\s-\s(?P<` + span + `>\d{1,3})(?:v\d)?(?:\s*[\[(.]|$)`,
			Group:     span,
			Tags:      []string{"absolute"},
			Formatter: lastNumber,
		},
	)
}

// renameCounts turns a count into season_count or episode_count depending on
// the number it follows. Counts following nothing are dropped.
func renameCounts(ms *rebulk.Matches) {
	numbered := func(m *rebulk.Match) bool {
		return m.Name == "season" || m.Name == "episode" || m.Name == "season_episode"
	}

	for _, c := range ms.Named("count", nil) {
		prev := ms.Previous(c, numbered, 0)
		switch {
		case prev == nil:
			ms.Remove(c)
		case prev.Name == "season":
			c.Name = "season_count"
		default:
			c.Name = "episode_count"
		}
	}
}

// seasonEpisodeParser reads the compact notations: S01E02..., 1x05... Any of
// seps between two episodes makes a range.
func seasonEpisodeParser(seps []string) rebulk.Formatter {
	episodeRe := regexp.MustCompile(`(?i)()(?:e|x)(\d{1,4})`)
	if rng := rangeSeparators(seps); rng != "" {
		episodeRe = regexp.MustCompile(`(?i)(?:(` + rng + `)e?|e|x)(\d{1,4})`)
	}

	return func(v any) (any, error) {
		raw := strings.ToLower(v.(string))

		sm := seasonRe.FindStringSubmatch(raw)
		if sm == nil {
			return nil, fmt.Errorf("no season in %q", raw)
		}
		season := parseInt(sm[1])

		rest := raw[len(sm[0]):]
		var episodes []int
		for _, m := range episodeRe.FindAllStringSubmatch(rest, -1) {
			ep := parseInt(m[2])
			if m[1] != "" && len(episodes) > 0 {
				last := episodes[len(episodes)-1]
				episodes = append(episodes, ExpandEpisodeRange(last, ep)[1:]...)
				continue
			}
			episodes = append(episodes, ep)
		}
		if len(episodes) == 0 {
			return nil, fmt.Errorf("no episode in %q", raw)
		}

		return newSeasonEpisode(season, episodes), nil
	}
}

func parseWordsSeasonEpisode(v any) (any, error) {
	nums := digitsRe.FindAllString(v.(string), -1)
	if len(nums) < 2 {
		return nil, fmt.Errorf("expected season and episode in %q", v)
	}
	return newSeasonEpisode(parseInt(nums[0]), []int{parseInt(nums[1])}), nil
}

func newSeasonEpisode(season int, episodes []int) SeasonEpisode {
	se := SeasonEpisode{Season: season, Episode: episodes[0]}
	if len(episodes) > 1 {
		se.Episodes = episodes
	}
	return se
}

func seasonEpisodeValidator(e config.Episodes) rebulk.Validator {
	return func(m *rebulk.Match) (bool, error) {
		se, ok := m.Value.(SeasonEpisode)
		if !ok {
			return false, nil
		}
		if e.SeasonMaxRange > 0 && se.Season > e.SeasonMaxRange {
			return false, nil
		}
		if e.EpisodeMaxRange > 0 && len(se.Episodes) > e.EpisodeMaxRange {
			return false, nil
		}
		return true, nil
	}
}

func lastNumber(v any) (any, error) {
	nums := digitsRe.FindAllString(v.(string), -1)
	if len(nums) == 0 {
		return nil, fmt.Errorf("no number in %q", v)
	}
	return parseInt(nums[len(nums)-1]), nil
}

func maxValue(limit int) rebulk.Validator {
	return func(m *rebulk.Match) (bool, error) {
		n, ok := m.Value.(int)
		return ok && (limit <= 0 || n <= limit), nil
	}
}

// ExpandEpisodeRange generates a slice of episode numbers from start to end inclusive
func ExpandEpisodeRange(start, end int) []int {
	if start > end || start < 0 || end > 9999 {
		return []int{start}
	}

	episodes := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		episodes = append(episodes, i)
	}
	return episodes
}

// parseInt safely converts a string to int, returns 0 on error
func parseInt(s string) int {
	var result int
	for _, c := range s {
		if c >= '0' && c <= '9' {
			result = result*10 + int(c-'0')
		} else {
			return 0
		}
	}
	return result
}
