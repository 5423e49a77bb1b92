package api

import (
	"encoding/json"

	"github.com/shapedtime/guessit/internal/guess"
)

type GuessQuery struct {
	Filename string `form:"filename" binding:"required"`
}

type GuessRequest struct {
	Filenames []string       `json:"filenames" binding:"required,min=1"`
	Options   *guess.Options `json:"options,omitempty"`
}

type GuessResponse struct {
	Filename string          `json:"filename"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type PropertiesQuery struct {
	Values bool `form:"values"`
}

type StatusResponse struct {
	Status       string `json:"status"`
	Properties   int    `json:"properties"`
	Uptime       string `json:"uptime"`
	CacheEntries *int   `json:"cache_entries,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
