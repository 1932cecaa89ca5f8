package tools

import (
	"context"
	"fmt"
)

// CompletionToolName is the distinguished tool whose invocation signals
// that the model considers the task finished.
const CompletionToolName = "attempt_completion"

// CompletionTool presents the final result of the task to the user.
type CompletionTool struct{}

func (t *CompletionTool) Name() string {
	return CompletionToolName
}

func (t *CompletionTool) Description() string {
	return "Present the result of your work to the user once the task is complete. " +
		"The result should be final and not require further input from the user."
}

func (t *CompletionTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"result": map[string]interface{}{
			"type":        "string",
			"description": "The final result of the task, formulated in a way that does not require further input",
		},
	}
}

func (t *CompletionTool) RequiredParameters() []string {
	return []string{"result"}
}

func (t *CompletionTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	result, ok := args["result"].(string)
	if !ok {
		return "", fmt.Errorf("result parameter must be a string")
	}
	return result, nil
}
