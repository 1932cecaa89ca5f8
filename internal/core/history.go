package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hcengineering/huly-coder/internal/models"
)

// SaveHistory serializes the full conversation as an ordered JSON document.
func SaveHistory(path string, messages []models.Message) error {
	if messages == nil {
		messages = []models.Message{}
	}
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// LoadHistory reads a previously persisted conversation. A missing file is
// not an error; it yields an empty history.
func LoadHistory(path string) ([]models.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return messages, nil
}
