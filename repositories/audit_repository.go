package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
)

// AuditLogRepository — журнал начислений. Запись best-effort: вызывающая
// сторона глотает ошибки, поэтому репозиторий просто возвращает их как есть.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.SubmissionAuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.SubmissionAuditLog, error)
}

type postgresAuditLogRepository struct {
	db *sql.DB
}

func NewPostgresAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &postgresAuditLogRepository{db: db}
}

func (r *postgresAuditLogRepository) Create(ctx context.Context, entry *models.SubmissionAuditLog) error {
	query := `
		INSERT INTO submission_audit_logs
			(participant_id, participant_name, participant_email, question_id, points_awarded, time_left_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		entry.ParticipantID,
		entry.ParticipantName,
		entry.ParticipantEmail,
		entry.QuestionID,
		entry.PointsAwarded,
		entry.TimeLeftSeconds,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

func (r *postgresAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.SubmissionAuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, participant_id, participant_name, participant_email, question_id, points_awarded, time_left_seconds, created_at
		FROM submission_audit_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.SubmissionAuditLog, 0)
	for rows.Next() {
		var e models.SubmissionAuditLog
		err := rows.Scan(&e.ID, &e.ParticipantID, &e.ParticipantName, &e.ParticipantEmail,
			&e.QuestionID, &e.PointsAwarded, &e.TimeLeftSeconds, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}
	return entries, nil
}
