package models

import "time"

type ContestStatus string

const (
	ContestStatusScheduled ContestStatus = "scheduled"
	ContestStatusActive    ContestStatus = "active"
	ContestStatusPaused    ContestStatus = "paused"
	ContestStatusCompleted ContestStatus = "completed"
)

func (s ContestStatus) Valid() bool {
	switch s {
	case ContestStatusScheduled, ContestStatusActive, ContestStatusPaused, ContestStatusCompleted:
		return true
	}
	return false
}

type Contest struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Status          ContestStatus `json:"status"`
	StartTime       *time.Time    `json:"start_time"`
	EndTime         *time.Time    `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ContestSettings — настраиваемая политика конкурса.
type ContestSettings struct {
	ID                int       `json:"id"`
	ContestID         int       `json:"contest_id"`
	AllowResubmission bool      `json:"allow_resubmission"`
	ShowLeaderboard   bool      `json:"show_leaderboard"`
	UpdatedAt         time.Time `json:"updated_at"`
}
