package rules

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shapedtime/guessit/internal/rebulk"
)

const dateLayout = "2006-01-02"

var separators = map[rune]bool{'.': true, '-': true, '_': true, ' ': true}

func dateRules() []*rebulk.Rule {
	return []*rebulk.Rule{
		{
			Name:      "date",
			Pattern:   word(`(?:19|20)\d{2}[.\-_ ](?:0[1-9]|1[0-2])[.\-_ ](?:0[1-9]|[12]\d|3[01])`),
			Group:     span,
			Boundary:  true,
			Formatter: parseDate,
		},
		{
			Name:      "year",
			Pattern:   word(`(?:19|20)\d{2}`),
			Group:     span,
			Boundary:  true,
			Formatter: parseYear,
		},
	}
}

func parseDate(v any) (any, error) {
	raw := []rune(v.(string))
	for i, r := range raw {
		if separators[r] {
			raw[i] = '-'
		}
	}
	t, err := time.Parse(dateLayout, string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	return t.Format(dateLayout), nil
}

func parseYear(v any) (any, error) {
	return strconv.Atoi(v.(string))
}
