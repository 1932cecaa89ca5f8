package models

import "encoding/json"

// Role identifies which side of the conversation produced an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentKind discriminates the payload carried by a Message.
type ContentKind string

const (
	ContentText       ContentKind = "text"
	ContentToolCall   ContentKind = "tool_call"
	ContentToolResult ContentKind = "tool_result"
)

// ToolCall is a structured request emitted by the model, naming a tool and
// its JSON-encoded arguments.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one conversation entry. Exactly one payload is populated,
// selected by Kind. History is append-only, except that the most recent
// assistant text entry is mutated in place while the model is still
// streaming deltas into it.
type Message struct {
	Role Role        `json:"role"`
	Kind ContentKind `json:"kind"`

	Text       string    `json:"text,omitempty"`
	ToolCall   *ToolCall `json:"tool_call,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	ToolResult string    `json:"tool_result,omitempty"`
}

func UserText(text string) Message {
	return Message{Role: RoleUser, Kind: ContentText, Text: text}
}

func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Kind: ContentText, Text: text}
}

func AssistantToolCall(call ToolCall) Message {
	return Message{Role: RoleAssistant, Kind: ContentToolCall, ToolCall: &call}
}

// ToolResultMessage wraps a tool payload as the user-role entry that answers
// the tool call with the given id.
func ToolResultMessage(callID, payload string) Message {
	return Message{Role: RoleUser, Kind: ContentToolResult, ToolCallID: callID, ToolResult: payload}
}

func (m Message) IsToolResult() bool {
	return m.Kind == ContentToolResult
}

// ToolNameFor finds the tool name for a given call id by scanning history.
func ToolNameFor(history []Message, callID string) string {
	for _, msg := range history {
		if msg.Kind == ContentToolCall && msg.ToolCall != nil && msg.ToolCall.ID == callID {
			return msg.ToolCall.Name
		}
	}
	return "unknown"
}
