package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"github.com/hcengineering/huly-coder/internal/models"
)

// OpenAI streams completions from any OpenAI-compatible endpoint. A custom
// base URL covers OpenRouter- and LMStudio-style providers as well.
type OpenAI struct {
	client       *openai.Client
	model        string
	systemPrompt string
	tools        []openai.Tool
}

// NewOpenAI builds a provider for the given credentials. toolSpecs is the
// generic specification produced by the tool registry.
func NewOpenAI(apiKey, baseURL, model, systemPrompt string, toolSpecs []map[string]interface{}) *OpenAI {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAI{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		systemPrompt: systemPrompt,
		tools:        convertToolSpecs(toolSpecs),
	}
}

// convertToolSpecs maps registry tool specifications onto openai.Tool values.
func convertToolSpecs(specs []map[string]interface{}) []openai.Tool {
	tools := make([]openai.Tool, 0, len(specs))
	for _, spec := range specs {
		function, ok := spec["function"].(map[string]interface{})
		if !ok {
			continue
		}
		name, _ := function["name"].(string)
		description, _ := function["description"].(string)
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  function["parameters"],
			},
		})
	}
	return tools
}

func (o *OpenAI) OpenStream(ctx context.Context, history []models.Message) (Stream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
	}
	messages = append(messages, toOpenAIMessages(history)...)

	raw, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		Tools:    o.tools,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion stream: %w", err)
	}

	return &openaiStream{
		raw: raw,
		asm: newToolCallAssembler(),
	}, nil
}

// toOpenAIMessages converts conversation entries into the provider wire
// shape. Tool results become tool-role messages correlated by call id.
func toOpenAIMessages(history []models.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, msg := range history {
		switch msg.Kind {
		case models.ContentText:
			role := openai.ChatMessageRoleUser
			if msg.Role == models.RoleAssistant {
				role = openai.ChatMessageRoleAssistant
			}
			result = append(result, openai.ChatCompletionMessage{
				Role:    role,
				Content: msg.Text,
			})
		case models.ContentToolCall:
			if msg.ToolCall == nil {
				continue
			}
			result = append(result, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   msg.ToolCall.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      msg.ToolCall.Name,
						Arguments: string(msg.ToolCall.Arguments),
					},
				}},
			})
		case models.ContentToolResult:
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    msg.ToolResult,
				ToolCallID: msg.ToolCallID,
			})
		}
	}
	return result
}

type openaiStream struct {
	raw    *openai.ChatCompletionStream
	asm    *toolCallAssembler
	queued []models.ToolCall
	usage  Usage
	done   bool
}

func (s *openaiStream) Next(ctx context.Context) (Item, error) {
	if len(s.queued) > 0 {
		call := s.queued[0]
		s.queued = s.queued[1:]
		return Item{ToolCall: &call}, nil
	}
	if s.done {
		return Item{}, io.EOF
	}

	for {
		if err := ctx.Err(); err != nil {
			return Item{}, err
		}
		resp, err := s.raw.Recv()
		if errors.Is(err, io.EOF) {
			// Tool calls arrive as argument fragments; they are only
			// complete once the stream finishes.
			s.queued = s.asm.flush()
			s.done = true
			if len(s.queued) > 0 {
				call := s.queued[0]
				s.queued = s.queued[1:]
				return Item{ToolCall: &call}, nil
			}
			return Item{}, io.EOF
		}
		if err != nil {
			return Item{}, err
		}
		if resp.Usage != nil {
			s.usage = Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if len(delta.ToolCalls) > 0 {
			s.asm.add(delta.ToolCalls)
		}
		if delta.Content != "" {
			return Item{Text: delta.Content}, nil
		}
	}
}

func (s *openaiStream) Usage() Usage {
	return s.usage
}

func (s *openaiStream) Close() error {
	return s.raw.Close()
}

// toolCallAssembler accumulates streamed tool-call fragments keyed by their
// choice index and assembles them into complete calls.
type toolCallAssembler struct {
	order []int
	parts map[int]*partialCall
}

type partialCall struct {
	id   string
	name string
	args strings.Builder
}

func newToolCallAssembler() *toolCallAssembler {
	return &toolCallAssembler{parts: make(map[int]*partialCall)}
}

func (a *toolCallAssembler) add(deltas []openai.ToolCall) {
	for _, delta := range deltas {
		idx := 0
		if delta.Index != nil {
			idx = *delta.Index
		}
		part, exists := a.parts[idx]
		if !exists {
			part = &partialCall{}
			a.parts[idx] = part
			a.order = append(a.order, idx)
		}
		if delta.ID != "" {
			part.id = delta.ID
		}
		if delta.Function.Name != "" {
			part.name = delta.Function.Name
		}
		part.args.WriteString(delta.Function.Arguments)
	}
}

func (a *toolCallAssembler) flush() []models.ToolCall {
	calls := make([]models.ToolCall, 0, len(a.order))
	for _, idx := range a.order {
		part := a.parts[idx]
		id := part.id
		if id == "" {
			// Some OpenAI-compatible endpoints omit call ids.
			id = uuid.NewString()
		}
		args := part.args.String()
		if args == "" {
			args = "{}"
		}
		calls = append(calls, models.ToolCall{
			ID:        id,
			Name:      part.name,
			Arguments: json.RawMessage(args),
		})
	}
	a.order = nil
	a.parts = make(map[int]*partialCall)
	return calls
}
