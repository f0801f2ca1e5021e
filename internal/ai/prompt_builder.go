package ai

import "fmt"

// BuildTaskPrompt embeds context in the task planning instructions.
func BuildTaskPrompt(context string) string {
	return fmt.Sprintf(taskPromptTemplate, context)
}

// BuildTaskConversation wraps the task prompt with the planner persona.
func BuildTaskConversation(context string) []Turn {
	return []Turn{
		{Role: RoleSystem, Content: taskPlannerSystemPrompt},
		{Role: RoleUser, Content: BuildTaskPrompt(context)},
	}
}
