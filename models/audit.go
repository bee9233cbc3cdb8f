package models

import "time"

// SubmissionAuditLog — best-effort журнал начислений. Ошибки записи
// никогда не влияют на основной ответ /submit.
type SubmissionAuditLog struct {
	ID               int       `json:"id"`
	ParticipantID    int       `json:"participant_id"`
	ParticipantName  *string   `json:"participant_name"`
	ParticipantEmail *string   `json:"participant_email"`
	QuestionID       *int      `json:"question_id"`
	PointsAwarded    int       `json:"points_awarded"`
	TimeLeftSeconds  *int      `json:"time_left_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}
