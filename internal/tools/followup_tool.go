package tools

import "context"

// FollowupQuestionTool asks the user a clarifying question. It returns an
// empty payload on purpose: the orchestrator interprets an empty result as
// "needs external input" and routes the next user message back as this
// call's result.
type FollowupQuestionTool struct{}

func (t *FollowupQuestionTool) Name() string {
	return "ask_followup_question"
}

func (t *FollowupQuestionTool) Description() string {
	return "Ask the user a question to gather additional information needed to complete the task. " +
		"Use this when you encounter ambiguities or need clarification to proceed effectively."
}

func (t *FollowupQuestionTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"question": map[string]interface{}{
			"type":        "string",
			"description": "The question to ask the user. This should be a clear, specific question that addresses the information you need.",
		},
		"options": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "string",
			},
			"description": "An array of 2-5 options for the user to choose from (optional)",
		},
	}
}

func (t *FollowupQuestionTool) RequiredParameters() []string {
	return []string{"question"}
}

func (t *FollowupQuestionTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return "", nil
}
