// Package provider adapts a model provider into an incremental sequence of
// text and tool-call items consumed by the agent orchestrator.
package provider

import (
	"context"

	"github.com/hcengineering/huly-coder/internal/models"
)

// Item is one increment of a completion stream: either a text delta or a
// fully assembled tool call.
type Item struct {
	Text     string
	ToolCall *models.ToolCall
}

// Usage is the token accounting reported by a finished stream.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Stream is an in-flight completion. Next returns io.EOF once the stream
// is exhausted; Usage is only meaningful after that.
type Stream interface {
	Next(ctx context.Context) (Item, error)
	Usage() Usage
	Close() error
}

// Provider opens completion streams against a conversation history. The
// last entry is the prompt, the remainder is context.
type Provider interface {
	OpenStream(ctx context.Context, history []models.Message) (Stream, error)
}
