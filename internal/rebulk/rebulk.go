package rebulk

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PathMarker names the markers seeded for every path segment of the input.
const PathMarker = "path"

// Rebulk holds an ordered rule set and the priorities used to settle
// overlapping matches. It is safe for concurrent use once rules are added.
type Rebulk struct {
	rules      []*Rule
	processors []Processor
	priorities *Priorities
	defaults   Options

	log zerolog.Logger
}

// Option configures a Rebulk.
type Option func(*Rebulk)

// WithPriorities replaces the default priority ranking.
func WithPriorities(p *Priorities) Option {
	return func(r *Rebulk) {
		if p != nil {
			r.priorities = p
		}
	}
}

// WithOptions sets the compile options applied when rules are registered.
func WithOptions(o Options) Option {
	return func(r *Rebulk) {
		r.defaults = o
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Rebulk) {
		r.log = l
	}
}

// New creates an engine with no rules.
func New(opts ...Option) *Rebulk {
	r := &Rebulk{
		priorities: DefaultPriorities(),
		log:        log.Logger.With().Str("component", "rebulk").Logger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// AddRules registers rules in order. Rules whose pattern cannot be compiled
// are kept but never match; their errors are returned joined.
func (r *Rebulk) AddRules(rules ...*Rule) error {
	var errs []error
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if err := rule.compile(r.defaults); err != nil {
			r.log.Warn().Err(err).Str("rule", rule.Name).Msg("rule disabled")
			errs = append(errs, err)
		}
		r.rules = append(r.rules, rule)
	}
	return errors.Join(errs...)
}

// Processor rewrites the resolved matches of one run, e.g. to drop or rename
// matches based on their neighbours.
type Processor func(ms *Matches)

// AddProcessors registers processors run, in order, after conflict
// resolution.
func (r *Rebulk) AddProcessors(p ...Processor) {
	r.processors = append(r.processors, p...)
}

// Rules returns the registered rules in registration order.
func (r *Rebulk) Rules() []*Rule {
	return append([]*Rule(nil), r.rules...)
}

// Priorities returns the ranking used for conflict resolution.
func (r *Rebulk) Priorities() *Priorities {
	return r.priorities
}

// Matches runs every rule over input and returns the surviving matches.
func (r *Rebulk) Matches(input string, opts Options) (result *Matches) {
	result = NewMatches(input)
	if input == "" {
		return result
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Str("input", input).
				Str("panic", fmt.Sprint(rec)).
				Msg("rule evaluation aborted")
			result = NewMatches(input)
		}
	}()

	seedPaths(input, result.markers)

	var found []*Match
	for _, rule := range r.rules {
		for _, m := range rule.Apply(input, result, opts) {
			if rule.Marker {
				result.markers.Add(m)
				continue
			}
			found = append(found, m)
		}
	}

	for _, m := range resolve(found, r.priorities, r.log) {
		result.Add(m)
	}
	for _, p := range r.processors {
		p(result)
	}

	r.log.Trace().
		Str("input", input).
		Int("candidates", len(found)).
		Int("kept", result.Len()).
		Msg("matched")

	return result
}

// Introspect lists, per public rule name, the distinct fixed values its rules
// declare. Names without fixed values map to an empty list.
func (r *Rebulk) Introspect() map[string][]any {
	out := make(map[string][]any)
	for _, rule := range r.rules {
		if rule.Private || rule.Marker || rule.Name == "" {
			continue
		}
		values, ok := out[rule.Name]
		if !ok {
			values = []any{}
		}
		if rule.Value != nil && !containsValue(values, rule.Value) {
			values = append(values, rule.Value)
		}
		out[rule.Name] = values
	}
	return out
}

func seedPaths(input string, markers *Markers) {
	start := 0
	for i := 0; i <= len(input); i++ {
		if i < len(input) && input[i] != '/' && input[i] != '\\' {
			continue
		}
		if i > start {
			m := NewMatch(start, i, input[start:i])
			m.Name = PathMarker
			markers.Add(m)
		}
		start = i + 1
	}
}

func containsValue(list []any, v any) bool {
	for _, x := range list {
		if reflect.DeepEqual(x, v) {
			return true
		}
	}
	return false
}
