package ai

const advisorSystemPrompt = "You are an AI assistant for financial advisors."

const taskPlannerSystemPrompt = "You are a task planning assistant for financial advisors."

// taskPromptTemplate takes the caller context verbatim.
const taskPromptTemplate = `
Based on the following context, suggest detailed tasks for a financial advisor:
Context: %s

Generate 3 specific tasks with the following information for each:
- Title
- Description
- Priority (high/medium/low)
- Category
- Suggested due date
`
