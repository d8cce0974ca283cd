package models

import (
	"fmt"
	"strings"
	"time"
)

// Question is a multiple choice question. Correct indexes into Options.
type Question struct {
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"required,min=2,dive,required"`
	Correct int      `json:"correct" validate:"gte=0"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Validate checks that the quiz has a title and well-formed questions.
func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}
	for i, question := range q.Questions {
		if err := validate.Struct(question); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidInput, i+1, err)
		}
		if question.Correct >= len(question.Options) {
			return fmt.Errorf("%w: question %d: correct option out of range", ErrInvalidInput, i+1)
		}
	}
	return nil
}
