package rebulk

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func names(list []*Match) []string {
	var out []string
	for _, m := range list {
		out = append(out, m.Name+"="+m.Raw)
	}
	return out
}

func requireNoPublicOverlap(t *testing.T, ms *Matches) {
	t.Helper()
	all := ms.All()
	for i, a := range all {
		for _, b := range all[i+1:] {
			if a.Private || b.Private {
				continue
			}
			require.False(t, a.Overlaps(b), "%s overlaps %s", a, b)
		}
	}
}

func TestMatchesEmptyInput(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(&Rule{Name: "year", Pattern: `\d{4}`}))

	ms := r.Matches("", Options{})
	require.Equal(0, ms.Len())
	require.Empty(ms.ToDict(DictOptions{}))
}

func TestPriorityWins(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	build := func(rules ...*Rule) *Matches {
		r := New()
		require.NoError(r.AddRules(rules...))
		return r.Matches("Movie.2001.mkv", Options{})
	}

	title := func() *Rule { return &Rule{Name: "title", Pattern: `Movie\.2001`} }
	year := func() *Rule { return &Rule{Name: "year", Pattern: `\d{4}`} }

	a := build(title(), year())
	b := build(year(), title())

	require.Equal([]string{"year=2001"}, names(a.All()))
	require.Equal(names(a.All()), names(b.All()))
	requireNoPublicOverlap(t, a)
}

func TestTieBreakByLength(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "short", Pattern: `bcd`},
		&Rule{Name: "long", Pattern: `abcde`},
	))

	ms := r.Matches("abcdef", Options{})
	require.Equal([]string{"long=abcde"}, names(ms.All()))
}

func TestTieBreakByDiscoveryOrder(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for _, order := range [][2]string{{"x", "y"}, {"y", "x"}} {
		patterns := map[string]string{"x": `abc`, "y": `bcd`}

		r := New()
		require.NoError(r.AddRules(
			&Rule{Name: order[0], Pattern: patterns[order[0]]},
			&Rule{Name: order[1], Pattern: patterns[order[1]]},
		))

		ms := r.Matches("abcd", Options{})
		require.Equal([]string{"x=abc"}, names(ms.All()), "order %v", order)
	}
}

func TestTitleSurvivesAsRemainder(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "title", Pattern: `Alpha 2001|Gamma`},
		&Rule{Name: "year", Pattern: `\b(?:19|20)\d{2}\b`},
	))

	ms := r.Matches("Alpha 2001 Gamma", Options{})
	requireNoPublicOverlap(t, ms)
	require.Equal([]string{"year=2001", "title=Gamma"}, names(ms.All()))
}

func TestPrivateMatchesBypassResolution(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "year", Pattern: `\d{4}`},
		&Rule{Name: "digits", Pattern: `\d+`, Private: true},
	))

	ms := r.Matches("x1999", Options{})
	require.Equal([]string{"year=1999", "digits=1999"}, names(ms.All()))
	require.Equal(map[string]any{"year": "1999"}, ms.ToDict(DictOptions{}))
}

func TestEmptyMatchingPatternTerminates(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(&Rule{Name: "a", Pattern: `a*`}))

	require.Equal(0, r.Matches("bbbb", Options{}).Len())
	require.Equal([]string{"a=aa"}, names(r.Matches("baab", Options{}).All()))
}

func TestIterationCap(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	rule := &Rule{Name: "a", Pattern: `a`}
	got := rule.Apply("aaaaa", NewMatches("aaaaa"), Options{MaxIterations: 2})
	require.Len(got, 2)
	require.Equal(0, got[0].Start)
	require.Equal(1, got[1].Start)
}

func TestMalformedPattern(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	err := r.AddRules(
		&Rule{Name: "broken", Pattern: `(unclosed`},
		&Rule{Name: "empty"},
		&Rule{Name: "ok", Pattern: `ok`},
	)
	require.Error(err)
	require.True(errors.Is(err, ErrMalformedPattern))
	require.True(errors.Is(err, ErrEmptyPattern))
	require.Len(r.Rules(), 3)

	ms := r.Matches("ok (unclosed", Options{})
	require.Equal([]string{"ok=ok"}, names(ms.All()))
}

func TestUnknownGroup(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	err := r.AddRules(&Rule{Name: "x", Pattern: `(?P<a>x)`, Group: "b"})
	require.ErrorIs(err, ErrUnknownGroup)
}

func TestGroupBoundsSpan(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(&Rule{
		Name:    "container",
		Pattern: `\.(?P<ext>mkv)$`,
		Group:   "ext",
		Tags:    []string{"videos"},
	}))

	ms := r.Matches("a.mkv.mkv", Options{})
	require.Len(ms.All(), 1)
	m := ms.All()[0]
	require.Equal(6, m.Start)
	require.Equal(9, m.End)
	require.True(m.HasTag("videos"))
}

func TestFormatterAndValidator(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	toInt := func(v any) (any, error) { return strconv.Atoi(v.(string)) }

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "num", Pattern: `\d+`, Formatter: toInt, Validator: func(m *Match) (bool, error) {
			return m.Value.(int) < 100, nil
		}},
		&Rule{Name: "word", Pattern: `[a-z]+`, Formatter: func(any) (any, error) {
			return nil, errors.New("boom")
		}},
		&Rule{Name: "upper", Pattern: `[A-Z]+`, Validator: func(*Match) (bool, error) {
			panic("bad validator")
		}},
	))

	ms := r.Matches("42 500 abc XYZ", Options{})
	require.Equal(map[string]any{"num": 42, "word": "abc"}, ms.ToDict(DictOptions{}))
}

func TestIgnoreCase(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New(WithOptions(Options{IgnoreCase: true}))
	require.NoError(r.AddRules(&Rule{Name: "source", Pattern: `\bbluray\b`, Value: "Blu-ray"}))

	ms := r.Matches("Movie.BluRay.mkv", Options{})
	require.Equal(map[string]any{"source": "Blu-ray"}, ms.ToDict(DictOptions{}))
}

func TestPathMarkers(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	ms := New().Matches(`/series\Show/file.mkv`, Options{})

	markers := ms.Markers().Named(PathMarker)
	require.Len(markers, 3)
	require.Equal("series", markers[0].Raw)
	require.Equal(1, markers[0].Start)
	require.Equal("Show", markers[1].Raw)
	require.Equal("file.mkv", markers[2].Raw)
	for _, m := range markers {
		require.True(m.Private)
	}
	require.Empty(ms.ToDict(DictOptions{}))
}

func TestMarkerRules(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "group", Pattern: `\[[^\]]+\]`, Marker: true},
		&Rule{Name: "release_group", Pattern: `Sub`},
	))

	ms := r.Matches("[Sub] Show", Options{})
	require.Len(ms.All(), 1)

	rg := ms.Named("release_group", nil)[0]
	marker := ms.Markers().AtMatch(rg, func(m *Match) bool { return m.Name == "group" }, 0)
	require.NotNil(marker)
	require.Equal("[Sub]", marker.Raw)
	require.Nil(ms.Markers().AtMatch(rg, nil, 5))
}

func TestIntrospect(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "source", Pattern: `bluray`, Value: "Blu-ray"},
		&Rule{Name: "source", Pattern: `bdrip`, Value: "Blu-ray"},
		&Rule{Name: "source", Pattern: `hdtv`, Value: "HDTV"},
		&Rule{Name: "year", Pattern: `\d{4}`},
		&Rule{Name: "hidden", Pattern: `x`, Private: true},
	))

	require.Equal(map[string][]any{
		"source": {"Blu-ray", "HDTV"},
		"year":   {},
	}, r.Introspect())
}

func TestProcessorsRunAfterResolution(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New()
	require.NoError(r.AddRules(
		&Rule{Name: "year", Pattern: `\d{4}`},
		&Rule{Name: "count", Pattern: `of\.(?P<n>\d+)`, Group: "n"},
	))

	var seen []string
	r.AddProcessors(
		func(ms *Matches) {
			seen = names(ms.All())
			for _, m := range ms.Named("year", nil) {
				require.True(ms.Remove(m))
				require.False(ms.Remove(m))
			}
		},
		func(ms *Matches) {
			for _, m := range ms.Named("count", nil) {
				m.Name = "episode_count"
			}
		},
	)

	ms := r.Matches("Show.2001.of.12", Options{})
	require.Equal([]string{"year=2001", "count=12"}, seen)
	require.Equal([]string{"episode_count=12"}, names(ms.All()))
}

func TestBoundaryKeepsAdjacentOccurrences(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New(WithOptions(Options{IgnoreCase: true}))
	require.NoError(r.AddRules(&Rule{
		Name:     "episode",
		Pattern:  `(?:^|[^\p{L}\p{N}])(?P<v>e\d{2})`,
		Group:    "v",
		Boundary: true,
	}))

	ms := r.Matches("Show.E01.E02 E03.E04x.E05", Options{})
	require.Equal([]string{"episode=E01", "episode=E02", "episode=E03", "episode=E05"}, names(ms.All()))
}

func TestBoundaryFallsBackToShorterSpan(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	r := New(WithOptions(Options{IgnoreCase: true}))
	require.NoError(r.AddRules(&Rule{
		Name:     "season_episode",
		Pattern:  `(?:^|[^\p{L}\p{N}])(?P<v>s\d{2}e\d{2}(?:-\d{2})*)`,
		Group:    "v",
		Boundary: true,
	}))

	ms := r.Matches("S01E01-720p S02E03-04", Options{})
	require.Equal([]string{"season_episode=S01E01", "season_episode=S02E03-04"}, names(ms.All()))
}
