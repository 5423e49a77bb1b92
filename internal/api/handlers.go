package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/guessit/internal/cache"
	"github.com/shapedtime/guessit/internal/guess"
)

func (s *Server) getGuess(c *gin.Context) {
	var q GuessQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	o := s.guesser.DefaultOptions()
	if err := c.ShouldBindQuery(&o); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	presentFlags(c, map[string]*bool{
		"single_value":        &o.SingleValue,
		"enforce_list":        &o.EnforceList,
		"advanced":            &o.Advanced,
		"output_input_string": &o.OutputInputString,
	})

	res, err := s.guessJSON(q.Filename, o)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", res)
}

func (s *Server) postGuess(c *gin.Context) {
	var req GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	o := s.guesser.DefaultOptions()
	if req.Options != nil {
		o = *req.Options
	}

	out := make([]GuessResponse, 0, len(req.Filenames))
	for _, name := range req.Filenames {
		resp := GuessResponse{Filename: name}
		res, err := s.guessJSON(name, o)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = res
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) getProperties(c *gin.Context) {
	var q PropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	presentFlags(c, map[string]*bool{"values": &q.Values})

	c.JSON(http.StatusOK, s.guesser.Properties(q.Values))
}

func (s *Server) getStatus(c *gin.Context) {
	resp := StatusResponse{
		Status:     "ok",
		Properties: len(s.guesser.Properties(false)),
		Uptime:     time.Since(s.started).Round(time.Second).String(),
	}

	if s.cache != nil {
		n, err := s.cache.Len()
		if err != nil {
			s.log.Warn().Err(err).Msg("counting cache entries")
		} else {
			resp.CacheEntries = &n
		}
	}

	c.JSON(http.StatusOK, resp)
}

// presentFlags sets the flags given without a value, as in ?advanced&values.
func presentFlags(c *gin.Context, flags map[string]*bool) {
	query := c.Request.URL.Query()
	for key, flag := range flags {
		if vs, ok := query[key]; ok && len(vs) > 0 && vs[0] == "" {
			*flag = true
		}
	}
}

// guessJSON returns the encoded result of one guess, from the cache when
// possible.
func (s *Server) guessJSON(filename string, o guess.Options) (json.RawMessage, error) {
	var key string
	if s.cache != nil {
		var err error
		if key, err = cache.Key(filename, o); err != nil {
			return nil, err
		}
		v, err := s.cache.Get(key)
		switch {
		case err == nil:
			return v, nil
		case !errors.Is(err, cache.ErrNotFound):
			s.log.Warn().Err(err).Str("filename", filename).Msg("reading cache")
		}
	}

	res, err := s.guesser.Guess(filename, o)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, data); err != nil {
			s.log.Warn().Err(err).Str("filename", filename).Msg("writing cache")
		}
	}
	return data, nil
}
