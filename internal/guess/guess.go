// Package guess is the entry point for guessing properties of media
// filenames.
package guess

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/rebulk"
	"github.com/shapedtime/guessit/internal/rules"
)

// Types reported in the type property.
const (
	TypeEpisode = "episode"
	TypeMovie   = "movie"
)

// Options tunes one guess.
type Options struct {
	SingleValue       bool `json:"single_value" form:"single_value"`
	EnforceList       bool `json:"enforce_list" form:"enforce_list"`
	Advanced          bool `json:"advanced" form:"advanced"`
	OutputInputString bool `json:"output_input_string" form:"output_input_string"`
}

func (o Options) dict() rebulk.DictOptions {
	return rebulk.DictOptions{
		Advanced:    o.Advanced,
		SingleValue: o.SingleValue,
		EnforceList: o.EnforceList,
	}
}

// Result maps property names to guessed values.
type Result map[string]any

// Recorder receives one observation per guess.
type Recorder interface {
	ObserveGuess(d time.Duration, properties []string, err error)
}

// API guesses filename properties with a rule set built from configuration.
// It is safe for concurrent use; Configure swaps the rule set atomically.
type API struct {
	mu     sync.RWMutex
	engine *rebulk.Rebulk
	cfg    *config.Config

	recorder Recorder
	log      zerolog.Logger
}

// Option configures an API.
type Option func(*API)

// WithRecorder reports every guess to r.
func WithRecorder(r Recorder) Option {
	return func(a *API) {
		a.recorder = r
	}
}

// New builds an API from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) (*API, error) {
	a := &API{
		log: log.Logger.With().Str("component", "guess").Logger(),
	}
	for _, o := range opts {
		o(a)
	}

	if err := a.Configure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Configure rebuilds the rule set from cfg. On error the previous rule set
// stays in place.
func (a *API) Configure(cfg *config.Config) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	engine, err := rules.Build(cfg.Advanced)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := engine.AddRules(rules.ExpectedTitles(cfg.Guess.ExpectedTitle)...); err != nil {
		return fmt.Errorf("%w: expected titles: %w", ErrConfiguration, err)
	}

	a.mu.Lock()
	a.engine = engine
	a.cfg = cfg
	a.mu.Unlock()

	a.log.Debug().Int("rules", len(engine.Rules())).Msg("rules configured")
	return nil
}

// Config returns the configuration in use.
func (a *API) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// DefaultOptions returns the per-call options from the configuration.
func (a *API) DefaultOptions() Options {
	g := a.Config().Guess
	return Options{
		SingleValue:       g.SingleValue,
		EnforceList:       g.EnforceList,
		Advanced:          g.Advanced,
		OutputInputString: g.OutputInputString,
	}
}

// Guess extracts properties from filename.
func (a *API) Guess(filename string, o Options) (res Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &Error{Input: filename, Options: o, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			a.log.Error().Err(err).Str("input", filename).Msg("guess failed")
		}
		if a.recorder != nil {
			a.recorder.ObserveGuess(time.Since(start), res.Properties(), err)
		}
	}()

	a.mu.RLock()
	engine, cfg := a.engine, a.cfg
	a.mu.RUnlock()

	if engine == nil {
		return nil, &Error{Input: filename, Options: o, Err: errors.New("not configured")}
	}

	ms := engine.Matches(filename, rebulk.Options{MaxIterations: cfg.Advanced.MaxIterations})
	res = Result(ms.ToDict(o.dict()))

	if len(res) > 0 {
		res["type"] = wrap(guessType(res), o)
	}
	if o.OutputInputString {
		res["input_string"] = filename
	}

	a.log.Debug().Str("input", filename).Int("properties", len(res)).Msg("guessed")
	return res, nil
}

// guessType tells episodes from movies.
func guessType(res Result) string {
	for _, k := range []string{"season", "episode", "season_episode", "date", "episode_details"} {
		if _, ok := res[k]; ok {
			return TypeEpisode
		}
	}
	return TypeMovie
}

// wrap shapes a computed property like the projected ones.
func wrap(v any, o Options) any {
	if o.Advanced {
		v = rebulk.Detail{Value: v, Start: -1, End: -1}
	}
	if o.EnforceList && !o.SingleValue {
		return []any{v}
	}
	return v
}

// Properties lists every property the rule set can report, sorted. With
// values, each property lists its known fixed values.
func (a *API) Properties(values bool) map[string][]string {
	a.mu.RLock()
	engine := a.engine
	a.mu.RUnlock()

	introspected := engine.Introspect()
	introspected["type"] = []any{TypeEpisode, TypeMovie}
	if expected, ok := introspected[rules.ExpectedTitle]; ok {
		delete(introspected, rules.ExpectedTitle)
		introspected["title"] = append(introspected["title"], expected...)
	}

	// flattened from season_episode
	introspected["season"] = orEmpty(introspected["season"])
	introspected["episode"] = orEmpty(introspected["episode"])
	if count, ok := introspected["count"]; ok {
		delete(introspected, "count")
		introspected["season_count"] = count
		introspected["episode_count"] = count
	}

	out := make(map[string][]string, len(introspected))
	for name, vals := range introspected {
		list := []string{}
		if values {
			for _, v := range vals {
				list = append(list, fmt.Sprint(v))
			}
			sort.Strings(list)
		}
		out[name] = list
	}
	return out
}

func orEmpty(v []any) []any {
	if v == nil {
		return []any{}
	}
	return v
}

// SuggestedExpected returns the titles that would not be guessed as a bare
// title, i.e. candidates for the expected_title option.
func (a *API) SuggestedExpected(titles []string, o Options) ([]string, error) {
	o.OutputInputString = false

	var suggested []string
	for _, title := range titles {
		res, err := a.Guess(title, o)
		if err != nil {
			return nil, err
		}
		if _, ok := res["title"]; !ok || len(res) != 2 {
			suggested = append(suggested, title)
		}
	}
	return suggested, nil
}

// Properties returns the sorted property names of r.
func (r Result) Properties() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
