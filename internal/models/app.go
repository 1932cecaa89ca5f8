package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages       []Message       // Conversation entries to display
	Commands       []CommandStatus // Background command pane
	Status         string          // Status bar text
	Processing     bool            // Processing flag mirrored from the agent
	State          AgentState      // Last agent state delivered via events
	TokensUsed     int
	TokensMax      int
	Width          int // Terminal width
	Height         int // Terminal height
	PendingConfirm *ToolCall // Tool call awaiting user approval
	LastError      string
}
