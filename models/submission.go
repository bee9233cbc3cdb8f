package models

import "time"

type SubmissionStatus string

const (
	SubmissionStatusCorrect   SubmissionStatus = "correct"
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusIncorrect SubmissionStatus = "incorrect"
)

// Submission — неизменяемая запись одной попытки. Строки не обновляются
// после вставки; очки несёт только первая строка со статусом correct.
type Submission struct {
	ID            int              `json:"id"`
	ParticipantID int              `json:"participant_id"`
	QuestionID    *int             `json:"question_id"`
	SubmittedCode string           `json:"submitted_code"`
	Status        SubmissionStatus `json:"status"`
	PointsAwarded int              `json:"points_awarded"`
	AttemptNumber int              `json:"attempt_number"`
	SubmittedAt   time.Time        `json:"submitted_at"`
}
