package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shapedtime/guessit/internal/cache"
	"github.com/shapedtime/guessit/internal/config"
	"github.com/shapedtime/guessit/internal/guess"
)

func newServer(t *testing.T, store *cache.Store) *Server {
	t.Helper()

	g, err := guess.New(nil)
	require.NoError(t, err)
	return NewServer(g, store)
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetGuess(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/guess?filename="+url.QueryEscape("The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv"), nil)
	require.Equal(http.StatusOK, rec.Code)
	require.JSONEq(`{
		"title": "The Matrix",
		"year": 1999,
		"screen_size": "1080p",
		"source": "BluRay",
		"video_codec": "H.264",
		"container": "mkv",
		"release_group": "GROUP",
		"type": "movie"
	}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/guess?enforce_list=true&filename="+url.QueryEscape("Alien.1979.mkv"), nil)
	require.Equal(http.StatusOK, rec.Code)

	var res map[string]any
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal([]any{"Alien"}, res["title"])
}

func TestGetGuessMissingFilename(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/guess", nil)
	require.Equal(http.StatusBadRequest, rec.Code)

	var e Error
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &e))
	require.NotEmpty(e.Error)
}

func TestPostGuess(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/guess", GuessRequest{
		Filenames: []string{"show.1x05.mkv", "Alien.1979.mkv"},
		Options:   &guess.Options{SingleValue: true, OutputInputString: true},
	})
	require.Equal(http.StatusOK, rec.Code)

	var out []struct {
		Filename string         `json:"filename"`
		Result   map[string]any `json:"result"`
	}
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(out, 2)
	require.Equal("show.1x05.mkv", out[0].Filename)
	require.Equal("episode", out[0].Result["type"])
	require.Equal(5.0, out[0].Result["episode"])
	require.Equal("Alien.1979.mkv", out[1].Result["input_string"])

	rec = do(t, s, http.MethodPost, "/api/guess", GuessRequest{})
	require.Equal(http.StatusBadRequest, rec.Code)
}

func TestGetProperties(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/properties?values=true", nil)
	require.Equal(http.StatusOK, rec.Code)

	var props map[string][]string
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &props))
	require.Equal([]string{"episode", "movie"}, props["type"])
	require.Contains(props["source"], "BluRay")
}

func TestCachedGuess(t *testing.T) {
	require := require.New(t)

	store, err := cache.Open(t.TempDir(), time.Hour)
	require.NoError(err)
	defer store.Close()

	s := newServer(t, store)
	target := "/api/guess?filename=" + url.QueryEscape("Breaking.Bad.S05E14.720p.HDTV.x264-EVOLVE.mkv")

	first := do(t, s, http.MethodGet, target, nil)
	require.Equal(http.StatusOK, first.Code)

	n, err := store.Len()
	require.NoError(err)
	require.Equal(1, n)

	second := do(t, s, http.MethodGet, target, nil)
	require.Equal(http.StatusOK, second.Code)
	require.JSONEq(first.Body.String(), second.Body.String())

	rec := do(t, s, http.MethodGet, "/api/status", nil)
	require.Equal(http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal("ok", status.Status)
	require.NotZero(status.Properties)
	require.NotNil(status.CacheEntries)
	require.Equal(1, *status.CacheEntries)

	require.NoError(s.Configure(config.DefaultConfig()))

	n, err = store.Len()
	require.NoError(err)
	require.Zero(n)
}

func TestConfigureRejectsBrokenConfig(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	cfg := config.DefaultConfig()
	cfg.Advanced.VideoCodec["Broken"] = []string{`[`}
	require.ErrorIs(s.Configure(cfg), guess.ErrConfiguration)

	rec := do(t, s, http.MethodGet, "/api/guess?filename=Movie.2010.x264.mkv", nil)
	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), `"video_codec":"H.264"`)
}

func TestValuelessFlags(t *testing.T) {
	require := require.New(t)

	s := newServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/guess?single_value&advanced&filename="+url.QueryEscape("Alien.1979.mkv"), nil)
	require.Equal(http.StatusOK, rec.Code)

	var res map[string]map[string]any
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal("Alien", res["title"]["value"])
	require.Equal(0.0, res["title"]["start"])

	rec = do(t, s, http.MethodGet, "/api/guess?advanced=false&filename="+url.QueryEscape("Alien.1979.mkv"), nil)
	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), `"title":"Alien"`)

	rec = do(t, s, http.MethodGet, "/api/properties?values", nil)
	require.Equal(http.StatusOK, rec.Code)

	var props map[string][]string
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &props))
	require.Contains(props["source"], "BluRay")
}
