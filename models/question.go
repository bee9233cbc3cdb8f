package models

import (
	"encoding/json"
	"time"
)

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

func (d QuestionDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question — отладочная задача: участнику показывается faulty_code,
// correct_code не отдаётся наружу (только админке).
type Question struct {
	ID               int                `json:"id"`
	Title            string             `json:"title"`
	Language         Language           `json:"language"`
	Difficulty       QuestionDifficulty `json:"difficulty"`
	Points           int                `json:"points"`
	ProblemStatement string             `json:"problem_statement"`
	Hint             string             `json:"hint"`
	FaultyCode       string             `json:"faulty_code"`
	CorrectCode      string             `json:"correct_code,omitempty"`
	TestCases        json.RawMessage    `json:"test_cases"`
	AttachmentKey    *string            `json:"attachment_key"`
	AttachmentURL    string             `json:"attachment_url,omitempty"`
	Enabled          bool               `json:"enabled"`
	CreatedAt        time.Time          `json:"created_at"`
}

// PublicView возвращает копию без эталонного решения.
func (q Question) PublicView() Question {
	q.CorrectCode = ""
	return q
}
