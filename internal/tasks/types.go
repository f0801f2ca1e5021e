package tasks

// GenerateRequest requires the context field; an empty string is allowed.
type GenerateRequest struct {
	Context *string `json:"context"`
}

// Task is a suggested task record.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	DueDate     string `json:"dueDate"`
}

type GenerateResponse struct {
	Tasks []Task `json:"tasks"`
}
