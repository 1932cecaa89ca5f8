// Package mock provides a scripted provider implementation for tests.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/provider"
)

// StreamItem is one scripted step of a mock stream: an item, or an error
// returned in its place.
type StreamItem struct {
	Item provider.Item
	Err  error
}

// Text is a convenience constructor for a text delta step.
func Text(text string) StreamItem {
	return StreamItem{Item: provider.Item{Text: text}}
}

// ToolCall is a convenience constructor for a tool-call step.
func ToolCall(id, name, arguments string) StreamItem {
	return StreamItem{Item: provider.Item{ToolCall: &models.ToolCall{
		ID:        id,
		Name:      name,
		Arguments: []byte(arguments),
	}}}
}

// Fail makes the stream return an error at this step.
func Fail(err error) StreamItem {
	return StreamItem{Err: err}
}

// Provider replays scripted streams in order. Every OpenStream call
// consumes the next script and records the history it was given.
type Provider struct {
	mu        sync.Mutex
	scripts   [][]StreamItem
	usage     provider.Usage
	Histories [][]models.Message
}

func NewProvider(usage provider.Usage, scripts ...[]StreamItem) *Provider {
	return &Provider{scripts: scripts, usage: usage}
}

// Enqueue appends another scripted stream.
func (p *Provider) Enqueue(script ...StreamItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts = append(p.scripts, script)
}

// OpenCount returns how many streams have been opened so far.
func (p *Provider) OpenCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Histories)
}

func (p *Provider) OpenStream(ctx context.Context, history []models.Message) (provider.Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]models.Message, len(history))
	copy(snapshot, history)
	p.Histories = append(p.Histories, snapshot)

	var script []StreamItem
	if len(p.scripts) > 0 {
		script = p.scripts[0]
		p.scripts = p.scripts[1:]
	}
	return &stream{items: script, usage: p.usage}, nil
}

type stream struct {
	items  []StreamItem
	usage  provider.Usage
	closed bool
}

func (s *stream) Next(ctx context.Context) (provider.Item, error) {
	if len(s.items) == 0 {
		return provider.Item{}, io.EOF
	}
	step := s.items[0]
	s.items = s.items[1:]
	if step.Err != nil {
		return provider.Item{}, step.Err
	}
	return step.Item, nil
}

func (s *stream) Usage() provider.Usage {
	return s.usage
}

func (s *stream) Close() error {
	s.closed = true
	return nil
}
