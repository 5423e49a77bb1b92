package rebulk

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// DefaultMaxIterations bounds the number of occurrences one rule may scan
// per input string.
const DefaultMaxIterations = 1000

// Options tunes how rules are compiled and applied.
type Options struct {
	// IgnoreCase makes string patterns case-insensitive.
	IgnoreCase bool
	// MaxIterations caps occurrences per rule and call. Zero means
	// DefaultMaxIterations.
	MaxIterations int
}

func (o Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// Rule is a declarative pattern plus the metadata copied onto each of its
// matches.
type Rule struct {
	Name string
	// Pattern is the source of the regular expression, used when Regexp is nil.
	Pattern string
	Regexp  *regexp.Regexp
	// Group names a capture group bounding the match span. Empty means the
	// whole occurrence.
	Group string

	// Value overrides the matched text when not nil.
	Value   any
	Tags    []string
	Private bool
	// Marker sends matches to the marker registry instead of the results.
	Marker bool
	// Boundary drops occurrences whose span is directly followed by a letter
	// or a digit. The following character is not consumed, so the next
	// occurrence may start right after it.
	Boundary bool

	Formatter Formatter
	Validator Validator

	re    *regexp.Regexp
	group int
}

// compile resolves the matcher once, at registration.
func (r *Rule) compile(opts Options) error {
	re, err := r.resolve(opts)
	if err != nil {
		return err
	}

	group := 0
	if r.Group != "" {
		group = re.SubexpIndex(r.Group)
		if group < 0 {
			return fmt.Errorf("%w: %q in rule %q", ErrUnknownGroup, r.Group, r.Name)
		}
	}

	r.re = re
	r.group = group
	return nil
}

func (r *Rule) resolve(opts Options) (*regexp.Regexp, error) {
	if r.Regexp != nil {
		return r.Regexp, nil
	}
	if r.Pattern == "" {
		return nil, fmt.Errorf("%w: rule %q", ErrEmptyPattern, r.Name)
	}

	src := r.Pattern
	if opts.IgnoreCase {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %v", ErrMalformedPattern, r.Name, err)
	}
	return re, nil
}

// matcher returns the compiled pattern and span group. Rules applied without
// registration are compiled on the fly and never mutated.
func (r *Rule) matcher(opts Options) (*regexp.Regexp, int) {
	if r.re != nil {
		return r.re, r.group
	}

	re, err := r.resolve(opts)
	if err != nil {
		log.Debug().Err(err).Msg("rebulk: rule produces no matches")
		return nil, 0
	}
	group := 0
	if r.Group != "" {
		if group = re.SubexpIndex(r.Group); group < 0 {
			return nil, 0
		}
	}
	return re, group
}

// Apply scans input for every non-overlapping occurrence of the pattern and
// returns the occurrences that survive formatting and validation.
func (r *Rule) Apply(input string, matches *Matches, opts Options) []*Match {
	re, group := r.matcher(opts)
	if re == nil {
		return nil
	}

	limit := opts.maxIterations()
	locs := re.FindAllStringSubmatchIndex(input, limit)
	if len(locs) == limit {
		log.Debug().
			Str("rule", r.Name).
			Int("limit", limit).
			Msg("rebulk: iteration cap reached, keeping partial results")
	}

	var out []*Match
	for _, loc := range locs {
		start, end := loc[2*group], loc[2*group+1]
		// zero-length occurrences and groups that did not participate
		if start < 0 || end <= start {
			continue
		}
		if r.Boundary && !boundaryAt(input, end) {
			if loc = shorter(re, input, loc, group); loc == nil {
				continue
			}
			start, end = loc[2*group], loc[2*group+1]
		}

		raw := input[start:end]
		m := &Match{
			Start:     start,
			End:       end,
			Value:     raw,
			Name:      r.Name,
			Tags:      append([]string(nil), r.Tags...),
			Private:   r.Private || r.Marker,
			Raw:       raw,
			Formatter: r.Formatter,
			Validator: r.Validator,
		}
		if r.Value != nil {
			m.Value = r.Value
		}

		m.Format()
		if m.Validate() {
			out = append(out, m)
		}
	}

	return out
}

// boundaryAt reports whether no letter or digit starts at pos.
func boundaryAt(input string, pos int) bool {
	if pos >= len(input) {
		return true
	}
	c, _ := utf8.DecodeRuneInString(input[pos:])
	return !unicode.IsLetter(c) && !unicode.IsNumber(c)
}

// shorter looks for the longest occurrence starting where loc starts whose
// span ends on a boundary, the way a trailing lookahead would backtrack.
func shorter(re *regexp.Regexp, input string, loc []int, group int) []int {
	from, end := loc[0], loc[2*group+1]
	for k := end - 1; k > loc[2*group]; k-- {
		l := re.FindStringSubmatchIndex(input[from:k])
		if l == nil || l[0] != 0 {
			continue
		}
		for i := range l {
			if l[i] >= 0 {
				l[i] += from
			}
		}
		if s, e := l[2*group], l[2*group+1]; s >= 0 && e > s && boundaryAt(input, e) {
			return l
		}
	}
	return nil
}
