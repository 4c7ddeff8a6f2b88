package quizzes

// Question is a single multiple-choice question inside a quiz. CorrectIndex
// points into Choices.
type Question struct {
	ID           int64    `json:"id"`
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// Quiz is a titled set of questions owned by its creator
type Quiz struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatorID   int64      `json:"creatorId"`
}
