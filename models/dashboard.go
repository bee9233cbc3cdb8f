package models

type DashboardStats struct {
	ParticipantsTotal     int              `json:"participants_total"`
	ParticipantsCompleted int              `json:"participants_completed"`
	ParticipantsBlocked   int              `json:"participants_blocked"`
	ParticipantsByTrack   map[Language]int `json:"participants_by_track"`
	SubmissionsTotal      int              `json:"submissions_total"`
	SubmissionsCorrect    int              `json:"submissions_correct"`
	QuestionsEnabled      int              `json:"questions_enabled"`
	ActiveContests        int              `json:"active_contests"`
	AverageScore          float64          `json:"average_score"`
}
