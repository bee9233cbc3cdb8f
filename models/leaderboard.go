package models

import "time"

// LeaderboardEntry — строка таблицы результатов. Источник истины —
// participants.score в Postgres, redis хранит только производный снимок.
type LeaderboardEntry struct {
	ParticipantID    int        `json:"participant_id"`
	FullName         string     `json:"full_name"`
	SelectedLanguage *Language  `json:"selected_language"`
	Score            int        `json:"score"`
	TimeTakenSeconds int        `json:"time_taken_seconds"`
	CompletedAt      *time.Time `json:"completed_at"`
}
