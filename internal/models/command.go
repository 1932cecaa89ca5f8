package models

// CommandStatus is a point-in-time view of one background command owned by
// the process registry.
type CommandStatus struct {
	ID       int    `json:"id"`
	Command  string `json:"command"`
	Output   string `json:"output"`
	IsActive bool   `json:"is_active"`
}
