package models

import "time"

// Participant связывает пользователя с языковым треком конкурса.
// Score меняется только сервисом начисления очков или админскими действиями.
type Participant struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"`
	ContestID        *int       `json:"contest_id"`
	SelectedLanguage *Language  `json:"selected_language"`
	Score            int        `json:"score"`
	TimeTakenSeconds int        `json:"time_taken_seconds"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsBlocked        bool       `json:"is_blocked"`
	CreatedAt        time.Time  `json:"created_at"`

	// Заполняются только при выборке с JOIN (админский список).
	Profile *Profile `json:"profile,omitempty"`
	Contest *Contest `json:"contest,omitempty"`
}
