// Package api implements [zdchat.Backend] and [zdchat.Titler] against the
// assistant HTTP service.
//
// The service exposes one POST endpoint per module (e.g. /chat, /chat_order)
// taking {"query": ...} and answering {"response": ...}, where response is a
// string or an array of strings, plus /generate_title taking
// {"message": ...} and answering {"title": ...}.
package api

import (
	"encoding/json"
	"fmt"
)

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultTitlePath = "/generate_title"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Response segments `json:"response"`
}

type titleRequest struct {
	Message string `json:"message"`
}

type titleResponse struct {
	Title string `json:"title"`
}

type apiErrorResponse struct {
	Error  string `json:"error"`
	Detail any    `json:"detail"`
}

// segments decodes either a JSON string or an array of strings.
type segments []string

func (s *segments) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = segments{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("response must be a string or an array of strings: %w", err)
	}
	*s = many
	return nil
}
