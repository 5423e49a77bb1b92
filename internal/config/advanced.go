package config

import (
	"slices"

	"github.com/shapedtime/guessit/internal/rebulk"
)

// Advanced holds the rule tables. Alias lists are case-insensitive regular
// expression fragments keyed by the canonical value they produce.
type Advanced struct {
	Priorities    [][]string `yaml:"priorities"`
	MaxIterations int        `yaml:"max_iterations"`

	CommonWords []string `yaml:"common_words"`
	Groups      Groups   `yaml:"groups"`

	// Container maps a kind (videos, subtitles...) to file extensions.
	Container      map[string][]string `yaml:"container"`
	Source         map[string][]string `yaml:"source"`
	VideoCodec     map[string][]string `yaml:"video_codec"`
	AudioCodec     map[string][]string `yaml:"audio_codec"`
	Other          map[string][]string `yaml:"other"`
	EpisodeDetails map[string][]string `yaml:"episode_details"`

	ScreenSize ScreenSize `yaml:"screen_size"`
	Episodes   Episodes   `yaml:"episodes"`
	Website    Website    `yaml:"website"`
	Title      Title      `yaml:"title"`
}

type Groups struct {
	Starting string `yaml:"starting"`
	Ending   string `yaml:"ending"`
}

type ScreenSize struct {
	Interlaced  []string `yaml:"interlaced"`
	Progressive []string `yaml:"progressive"`
	// Aliases maps a canonical size to extra spellings (4K, UHD...).
	Aliases map[string][]string `yaml:"aliases"`
	// Dimensions maps WIDTHxHEIGHT to a canonical size.
	Dimensions map[string]string `yaml:"dimensions"`
}

type Episodes struct {
	SeasonMaxRange  int      `yaml:"season_max_range"`
	EpisodeMaxRange int      `yaml:"episode_max_range"`
	RangeSeparators []string `yaml:"range_separators"`
	SeasonWords     []string `yaml:"season_words"`
	EpisodeWords    []string `yaml:"episode_words"`
	OfWords         []string `yaml:"of_words"`
}

type Website struct {
	SafeTLDs       []string `yaml:"safe_tlds"`
	SafeSubdomains []string `yaml:"safe_subdomains"`
}

type Title struct {
	MinLength int      `yaml:"min_length"`
	SkipWords []string `yaml:"skip_words"`
}

// DefaultPriorities returns a copy of the engine's standard conflict
// ranking, highest first.
func DefaultPriorities() [][]string {
	out := make([][]string, len(rebulk.DefaultTiers))
	for i, tier := range rebulk.DefaultTiers {
		out[i] = slices.Clone(tier)
	}
	return out
}

// DefaultAdvanced returns the built-in rule tables.
func DefaultAdvanced() Advanced {
	return Advanced{
		Priorities:    DefaultPriorities(),
		MaxIterations: 1000,
		CommonWords: []string{
			"ca", "cat", "de", "he", "it", "no", "por", "rum", "se", "st", "sub",
		},
		Groups: Groups{
			Starting: "([{",
			Ending:   ")]}",
		},
		Container: map[string][]string{
			"subtitles": {"srt", "idx", "sub", "ssa", "ass", "vtt", "smi"},
			"info":      {"nfo"},
			"videos": {
				"3g2", "3gp", "3gp2", "asf", "avi", "divx", "flv", "iso", "m4v",
				"mk2", "mk3d", "mka", "mkv", "mov", "mp4", "mp4a", "mpeg", "mpg",
				"ogg", "ogm", "ogv", "qt", "ra", "ram", "rm", "ts", "m2ts", "vob",
				"wav", "webm", "wma", "wmv",
			},
			"torrent": {"torrent"},
			"nzb":     {"nzb"},
		},
		Source: map[string][]string{
			"BluRay":   {`blu-?ray`, `bd-?rip`, `br-?rip`, `bd-?remux`},
			"HD-DVD":   {`hd-?dvd`},
			"HDTV":     {`hdtv`},
			"Web":      {`web-?dl`, `web-?rip`, `web`},
			"DVD":      {`dvd-?rip`, `dvd`},
			"Camera":   {`cam`, `cam-?rip`},
			"Telesync": {`telesync`, `hd-?ts`},
			"Telecine": {`telecine`, `hd-?tc`},
			"Screener": {`screener`, `dvd-?scr`},
			"VHS":      {`vhs`},
		},
		VideoCodec: map[string][]string{
			"H.264":  {`h\.?264`, `x264`, `avc`},
			"H.265":  {`h\.?265`, `x265`, `hevc`},
			"Xvid":   {`xvid`},
			"DivX":   {`divx`},
			"VP9":    {`vp9`},
			"AV1":    {`av1`},
			"MPEG-2": {`mpeg-?2`},
			"VC-1":   {`vc-?1`},
		},
		AudioCodec: map[string][]string{
			"MP3":                {`mp3`, `lame\d+-?\d+`},
			"MP2":                {`mp2`},
			"Dolby Digital":      {`dolby-?digital`, `dd`, `ac-?3d?`},
			"Dolby Atmos":        {`dolby-?atmos`, `atmos`},
			"AAC":                {`aac`},
			"Dolby Digital Plus": {`ddp`, `dd\+`, `e-?ac-?3`},
			"FLAC":               {`flac`},
			"DTS":                {`dts`},
			"DTS-HD":             {`dts-?hd`, `dts-?ma`},
			"DTS:X":              {`dts[:-]?x`},
			"Dolby TrueHD":       {`true-?hd`},
			"Opus":               {`opus`},
			"Vorbis":             {`vorbis`},
			"PCM":                {`pcm`},
			"LPCM":               {`lpcm`},
		},
		Other: map[string][]string{
			"Proper":       {`proper`},
			"Repack":       {`repack`, `rerip`},
			"HDR10":        {`hdr10\+?`, `hdr`},
			"Dolby Vision": {`dolby-?vision`, `dovi`},
			"Remux":        {`remux`},
			"Extended":     {`extended`},
			"Unrated":      {`unrated`},
			"Complete":     {`complete`},
		},
		EpisodeDetails: map[string][]string{
			"Special":                  {`special`, `specials`},
			"Pilot":                    {`pilot`},
			"Unaired":                  {`unaired`},
			"Final":                    {`final`},
			"Original Net Animation":   {`ona`},
			"Original Video Animation": {`ova`},
		},
		ScreenSize: ScreenSize{
			Interlaced:  []string{"360", "480", "540", "576", "900", "1080"},
			Progressive: []string{"360", "480", "540", "576", "900", "1080", "368", "720", "1440", "2160", "4320"},
			Aliases: map[string][]string{
				"2160p": {`4k`, `uhd`},
				"4320p": {`8k`},
			},
			Dimensions: map[string]string{
				"640x480":   "480p",
				"720x480":   "480p",
				"720x576":   "576p",
				"1280x720":  "720p",
				"1920x1080": "1080p",
				"2560x1440": "1440p",
				"3840x2160": "2160p",
				"7680x4320": "4320p",
			},
		},
		Episodes: Episodes{
			SeasonMaxRange:  100,
			EpisodeMaxRange: 100,
			RangeSeparators: []string{"-", "~", "to"},
			SeasonWords: []string{
				"season", "saison", "seizoen", "seasons", "saisons", "temporada",
				"temporadas", "stagione",
			},
			EpisodeWords: []string{
				"episode", "episodes", "episodio", "episodios", "capitulo", "capitulos",
			},
			OfWords: []string{"of", "sur"},
		},
		Website: Website{
			SafeTLDs:       []string{"com", "net", "org"},
			SafeSubdomains: []string{"www"},
		},
		Title: Title{
			MinLength: 4,
			SkipWords: []string{"sample", "trailer", "extras", "proof"},
		},
	}
}

// Merge returns a copy of a with the tables of b merged in. Lists are
// unioned keeping order, maps are merged per key and scalars of b override
// when set. Tables named in pristine are taken from b as is.
func (a Advanced) Merge(b Advanced, pristine ...string) Advanced {
	replace := func(table string) bool {
		return slices.Contains(pristine, "all") || slices.Contains(pristine, table)
	}

	out := a.clone()

	// priorities are an order, never a union
	if len(b.Priorities) > 0 || replace("priorities") {
		out.Priorities = cloneTiers(b.Priorities)
	}
	if b.MaxIterations > 0 {
		out.MaxIterations = b.MaxIterations
	}

	out.CommonWords = mergeList(out.CommonWords, b.CommonWords, replace("common_words"))

	if replace("groups") {
		out.Groups = b.Groups
	} else {
		if b.Groups.Starting != "" {
			out.Groups.Starting = b.Groups.Starting
		}
		if b.Groups.Ending != "" {
			out.Groups.Ending = b.Groups.Ending
		}
	}

	out.Container = mergeTable(out.Container, b.Container, replace("container"))
	out.Source = mergeTable(out.Source, b.Source, replace("source"))
	out.VideoCodec = mergeTable(out.VideoCodec, b.VideoCodec, replace("video_codec"))
	out.AudioCodec = mergeTable(out.AudioCodec, b.AudioCodec, replace("audio_codec"))
	out.Other = mergeTable(out.Other, b.Other, replace("other"))
	out.EpisodeDetails = mergeTable(out.EpisodeDetails, b.EpisodeDetails, replace("episode_details"))

	if replace("screen_size") {
		out.ScreenSize = b.ScreenSize.clone()
	} else {
		out.ScreenSize.Interlaced = mergeList(out.ScreenSize.Interlaced, b.ScreenSize.Interlaced, false)
		out.ScreenSize.Progressive = mergeList(out.ScreenSize.Progressive, b.ScreenSize.Progressive, false)
		out.ScreenSize.Aliases = mergeTable(out.ScreenSize.Aliases, b.ScreenSize.Aliases, false)
		for k, v := range b.ScreenSize.Dimensions {
			if out.ScreenSize.Dimensions == nil {
				out.ScreenSize.Dimensions = make(map[string]string)
			}
			out.ScreenSize.Dimensions[k] = v
		}
	}

	if replace("episodes") {
		out.Episodes = b.Episodes.clone()
	} else {
		if b.Episodes.SeasonMaxRange > 0 {
			out.Episodes.SeasonMaxRange = b.Episodes.SeasonMaxRange
		}
		if b.Episodes.EpisodeMaxRange > 0 {
			out.Episodes.EpisodeMaxRange = b.Episodes.EpisodeMaxRange
		}
		out.Episodes.RangeSeparators = mergeList(out.Episodes.RangeSeparators, b.Episodes.RangeSeparators, false)
		out.Episodes.SeasonWords = mergeList(out.Episodes.SeasonWords, b.Episodes.SeasonWords, false)
		out.Episodes.EpisodeWords = mergeList(out.Episodes.EpisodeWords, b.Episodes.EpisodeWords, false)
		out.Episodes.OfWords = mergeList(out.Episodes.OfWords, b.Episodes.OfWords, false)
	}

	if replace("website") {
		out.Website = Website{
			SafeTLDs:       slices.Clone(b.Website.SafeTLDs),
			SafeSubdomains: slices.Clone(b.Website.SafeSubdomains),
		}
	} else {
		out.Website.SafeTLDs = mergeList(out.Website.SafeTLDs, b.Website.SafeTLDs, false)
		out.Website.SafeSubdomains = mergeList(out.Website.SafeSubdomains, b.Website.SafeSubdomains, false)
	}

	if replace("title") {
		out.Title = Title{MinLength: b.Title.MinLength, SkipWords: slices.Clone(b.Title.SkipWords)}
	} else {
		if b.Title.MinLength > 0 {
			out.Title.MinLength = b.Title.MinLength
		}
		out.Title.SkipWords = mergeList(out.Title.SkipWords, b.Title.SkipWords, false)
	}

	return out
}

func (a Advanced) clone() Advanced {
	out := a
	out.Priorities = cloneTiers(a.Priorities)
	out.CommonWords = slices.Clone(a.CommonWords)
	out.Container = mergeTable(nil, a.Container, false)
	out.Source = mergeTable(nil, a.Source, false)
	out.VideoCodec = mergeTable(nil, a.VideoCodec, false)
	out.AudioCodec = mergeTable(nil, a.AudioCodec, false)
	out.Other = mergeTable(nil, a.Other, false)
	out.EpisodeDetails = mergeTable(nil, a.EpisodeDetails, false)
	out.ScreenSize = a.ScreenSize.clone()
	out.Episodes = a.Episodes.clone()
	out.Website.SafeTLDs = slices.Clone(a.Website.SafeTLDs)
	out.Website.SafeSubdomains = slices.Clone(a.Website.SafeSubdomains)
	out.Title.SkipWords = slices.Clone(a.Title.SkipWords)
	return out
}

func (s ScreenSize) clone() ScreenSize {
	out := ScreenSize{
		Interlaced:  slices.Clone(s.Interlaced),
		Progressive: slices.Clone(s.Progressive),
		Aliases:     mergeTable(nil, s.Aliases, false),
	}
	if s.Dimensions != nil {
		out.Dimensions = make(map[string]string, len(s.Dimensions))
		for k, v := range s.Dimensions {
			out.Dimensions[k] = v
		}
	}
	return out
}

func (e Episodes) clone() Episodes {
	out := e
	out.RangeSeparators = slices.Clone(e.RangeSeparators)
	out.SeasonWords = slices.Clone(e.SeasonWords)
	out.EpisodeWords = slices.Clone(e.EpisodeWords)
	out.OfWords = slices.Clone(e.OfWords)
	return out
}

func cloneTiers(tiers [][]string) [][]string {
	if tiers == nil {
		return nil
	}
	out := make([][]string, len(tiers))
	for i, t := range tiers {
		out[i] = slices.Clone(t)
	}
	return out
}

// mergeList appends the items of b missing from a.
func mergeList(a, b []string, replace bool) []string {
	if replace {
		return slices.Clone(b)
	}
	out := slices.Clone(a)
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func mergeTable(a, b map[string][]string, replace bool) map[string][]string {
	if replace {
		a = nil
	}
	if a == nil && b == nil {
		return nil
	}
	out := make(map[string][]string, len(a)+len(b))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	for k, v := range b {
		out[k] = mergeList(out[k], v, false)
	}
	return out
}
