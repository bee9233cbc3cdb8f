package models

import "time"

type Announcement struct {
	ID        int       `json:"id"`
	ContestID int       `json:"contest_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`

	Contest *Contest `json:"contest,omitempty"`
}
