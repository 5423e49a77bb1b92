package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type staticSource map[string][]string

func (s staticSource) Properties(bool) map[string][]string {
	return s
}

func TestObserveGuess(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	m := New(prometheus.NewRegistry())

	m.ObserveGuess(time.Millisecond, []string{"title", "year"}, nil)
	m.ObserveGuess(time.Millisecond, []string{"title"}, nil)
	m.ObserveGuess(time.Millisecond, nil, errors.New("boom"))

	require.Equal(3.0, testutil.ToFloat64(m.Guesses))
	require.Equal(1.0, testutil.ToFloat64(m.GuessErrors))
	require.Equal(2.0, testutil.ToFloat64(m.PropertiesFound.WithLabelValues("title")))
	require.Equal(1.0, testutil.ToFloat64(m.PropertiesFound.WithLabelValues("year")))
}

func TestRuleCollector(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	c := NewRuleCollector(staticSource{
		"source": {"BluRay", "HDTV"},
		"title":  {},
	})

	expected := `
# HELP guessit_rules Number of fixed values known for a property.
# TYPE guessit_rules gauge
guessit_rules{property="source"} 2
guessit_rules{property="title"} 0
# HELP guessit_rules_properties Number of properties the rule set can report.
# TYPE guessit_rules_properties gauge
guessit_rules_properties 2
`
	require.NoError(testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestHandler(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveGuess(time.Millisecond, []string{"title"}, nil)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), "guessit_guess_total 1")
	require.Contains(rec.Body.String(), `guessit_properties_found_total{property="title"} 1`)
}
