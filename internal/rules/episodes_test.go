package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/guessit/internal/config"
)

func TestParseInt(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	tests := []struct {
		input    string
		expected int
	}{
		{"123", 123},
		{"01", 1},
		{"0", 0},
		{"", 0},
		{"001", 1},
		// Invalid inputs
		{"abc", 0},
		{"12a3", 0},
		{"-1", 0},
		{" 1", 0},
	}

	for _, tc := range tests {
		result := parseInt(tc.input)
		require.Equal(tc.expected, result, "parseInt(%q) should be %d", tc.input, tc.expected)
	}
}

func TestExpandEpisodeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		start    int
		end      int
		expected []int
	}{
		{"normal range", 1, 5, []int{1, 2, 3, 4, 5}},
		{"single episode", 1, 1, []int{1}},
		{"high episode numbers", 10, 15, []int{10, 11, 12, 13, 14, 15}},
		// Edge cases - invalid inputs return just start
		{"start > end", 5, 1, []int{5}},
		{"end too large", 1, 10000, []int{1}},
		{"negative start", -1, 5, []int{-1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ExpandEpisodeRange(tc.start, tc.end))
		})
	}
}

func TestParseSeasonEpisode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected SeasonEpisode
	}{
		{"S01E02", SeasonEpisode{Season: 1, Episode: 2}},
		{"s1e1", SeasonEpisode{Season: 1, Episode: 1}},
		{"S01.E05", SeasonEpisode{Season: 1, Episode: 5}},
		{"S01E01E02E03", SeasonEpisode{Season: 1, Episode: 1, Episodes: []int{1, 2, 3}}},
		{"S02E01-E03", SeasonEpisode{Season: 2, Episode: 1, Episodes: []int{1, 2, 3}}},
		{"S02E01-03", SeasonEpisode{Season: 2, Episode: 1, Episodes: []int{1, 2, 3}}},
		{"1x05", SeasonEpisode{Season: 1, Episode: 5}},
		{"01x05-07", SeasonEpisode{Season: 1, Episode: 5, Episodes: []int{5, 6, 7}}},
		{"3x01x02", SeasonEpisode{Season: 3, Episode: 1, Episodes: []int{1, 2}}},
		{"S01E01to03", SeasonEpisode{Season: 1, Episode: 1, Episodes: []int{1, 2, 3}}},
		{"S01E02~E04", SeasonEpisode{Season: 1, Episode: 2, Episodes: []int{2, 3, 4}}},
	}

	parse := seasonEpisodeParser(config.DefaultAdvanced().Episodes.RangeSeparators)

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}

	_, err := parse("S01")
	require.Error(t, err)
}

func TestParseSeasonEpisodeWithoutRanges(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	got, err := seasonEpisodeParser(nil)("S02E01E03")
	require.NoError(err)
	require.Equal(SeasonEpisode{Season: 2, Episode: 1, Episodes: []int{1, 3}}, got)

	got, err = seasonEpisodeParser(nil)("S02E01-03")
	require.NoError(err)
	require.Equal(SeasonEpisode{Season: 2, Episode: 1}, got)
}

func TestSeasonEpisodeField(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	se := SeasonEpisode{Season: 2, Episode: 1, Episodes: []int{1, 2}}

	season, ok := se.Field("season")
	require.True(ok)
	require.Equal(2, season)

	episode, ok := se.Field("episode")
	require.True(ok)
	require.Equal([]int{1, 2}, episode)

	_, ok = se.Field("title")
	require.False(ok)

	require.Equal("S02E01-E02", se.String())
	require.Equal("S01E05", SeasonEpisode{Season: 1, Episode: 5}.String())
}

func TestDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"1920x1080", "1080p"},
		{"1280x720", "720p"},
		{"3840x2160", "2160p"},
		{"1440x1080", "1080p"},
		{"1000x1000", "1000x1000"},
		{"640X352", "640x352"},
	}

	format := dimensions(config.DefaultAdvanced().ScreenSize)
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := format(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for in, want := range map[string]string{
		"The.Matrix":        "The Matrix",
		"Adam-12":           "Adam-12",
		"Some_Show - Name ": "Some Show Name",
	} {
		got, err := cleanTitle(in)
		require.NoError(err)
		require.Equal(want, got)
	}
}
