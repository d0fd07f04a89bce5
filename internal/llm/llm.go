// Package llm defines the chat completion contract shared by the model providers.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("empty completion")

// ChatRequest is a single-turn chat exchange.
type ChatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completer sends one chat request and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
