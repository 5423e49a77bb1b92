package rebulk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Formatter turns the raw value of a match into its typed value.
type Formatter func(value any) (any, error)

// Validator decides whether a formatted match is kept.
type Validator func(m *Match) (bool, error)

// Match is a matched span of the input string.
// It is read-only once Format and Validate have run.
type Match struct {
	Start   int
	End     int
	Value   any
	Name    string
	Tags    []string
	Private bool
	Raw     string

	Formatter Formatter
	Validator Validator
}

// NewMatch creates an anonymous match whose value is its raw text.
func NewMatch(start, end int, raw string) *Match {
	return &Match{
		Start: start,
		End:   end,
		Value: raw,
		Raw:   raw,
	}
}

// Span returns the half-open [start, end) offsets of the match.
func (m *Match) Span() (int, int) {
	return m.Start, m.End
}

// Len returns the length of the span in bytes.
func (m *Match) Len() int {
	return m.End - m.Start
}

// HasTag reports whether the match carries tag.
func (m *Match) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Overlaps reports whether both spans share at least one byte.
func (m *Match) Overlaps(o *Match) bool {
	return !(m.End <= o.Start || m.Start >= o.End)
}

// Contains reports whether o lies entirely inside m.
func (m *Match) Contains(o *Match) bool {
	return m.Start <= o.Start && m.End >= o.End
}

// Format applies the formatter to the value. A failing formatter leaves the
// value untouched.
func (m *Match) Format() {
	if m.Formatter == nil {
		return
	}

	v, err := callFormatter(m.Formatter, m.Value)
	if err != nil {
		log.Warn().
			Err(err).
			Str("name", m.Name).
			Str("raw", m.Raw).
			Msg("rebulk: formatter failed, keeping raw value")
		return
	}
	m.Value = v
}

// Validate runs the validator. Matches without a validator are always valid;
// a failing validator rejects the match.
func (m *Match) Validate() bool {
	if m.Validator == nil {
		return true
	}

	ok, err := callValidator(m.Validator, m)
	if err != nil {
		log.Warn().
			Err(err).
			Str("name", m.Name).
			Str("raw", m.Raw).
			Msg("rebulk: validator failed, rejecting match")
		return false
	}
	return ok
}

// Split cuts the match at every separator character found in its raw text.
// Sub-matches keep the name, tags and private flag of m. When valueFn is nil
// the value of each part is its raw text.
func (m *Match) Split(separators string, valueFn func(*Match) any) []*Match {
	var parts []*Match

	emit := func(from, to int) {
		if from >= to {
			return
		}
		raw := m.Raw[from:to]
		part := &Match{
			Start:   m.Start + from,
			End:     m.Start + to,
			Value:   raw,
			Name:    m.Name,
			Tags:    append([]string(nil), m.Tags...),
			Private: m.Private,
			Raw:     raw,
		}
		if valueFn != nil {
			part.Value = valueFn(part)
		}
		parts = append(parts, part)
	}

	current := 0
	for i, r := range m.Raw {
		if strings.ContainsRune(separators, r) {
			emit(current, i)
			current = i + utf8.RuneLen(r)
		}
	}
	emit(current, len(m.Raw))

	return parts
}

func (m *Match) String() string {
	name := m.Name
	if name == "" {
		name = "_"
	}
	return fmt.Sprintf("<%s:%v [%d,%d)>", name, m.Value, m.Start, m.End)
}

func callFormatter(f Formatter, value any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatter panic: %v", r)
		}
	}()
	return f(value)
}

func callValidator(v Validator, m *Match) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("validator panic: %v", r)
		}
	}()
	return v(m)
}
