package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/lib/pq"
)

var (
	ErrSubmissionNotFound           = errors.New("submission not found")
	ErrSubmissionParticipantInvalid = errors.New("submission participant conflict or invalid")
	ErrSubmissionQuestionInvalid    = errors.New("submission question conflict or invalid")
	// ErrSubmissionAlreadySolved возвращается, когда частичный уникальный
	// индекс отклонил вторую correct-строку для пары (participant, question).
	ErrSubmissionAlreadySolved = errors.New("correct submission already exists for this participant and question")
)

type SubmissionRepository interface {
	// HasCorrect — быстрая предварительная проверка перед начислением.
	HasCorrect(ctx context.Context, participantID, questionID int) (bool, error)
	// AwardCorrect атомарно вставляет correct-строку и увеличивает счёт
	// участника в одной транзакции. Проигравший гонку получает
	// ErrSubmissionAlreadySolved, счёт при этом не меняется.
	AwardCorrect(ctx context.Context, sub *models.Submission) (newScore int, err error)
	// CreateAttempt пишет не начисляющую очков попытку (pending/incorrect).
	CreateAttempt(ctx context.Context, sub *models.Submission) error
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
	Count(ctx context.Context, status *models.SubmissionStatus) (int, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) HasCorrect(ctx context.Context, participantID, questionID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM submissions
			WHERE participant_id = $1 AND question_id = $2 AND status = 'correct'
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, participantID, questionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing correct submission: %w", err)
	}
	return exists, nil
}

const insertSubmissionQuery = `
	INSERT INTO submissions (participant_id, question_id, submitted_code, status, points_awarded, attempt_number)
	VALUES ($1, $2, $3, $4, $5,
		COALESCE((SELECT MAX(attempt_number) FROM submissions
			WHERE participant_id = $1
			AND question_id IS NOT DISTINCT FROM $2), 0) + 1)
	RETURNING id, attempt_number, submitted_at`

func (r *postgresSubmissionRepository) insert(ctx context.Context, exec SQLExecutor, sub *models.Submission) error {
	return exec.QueryRowContext(ctx, insertSubmissionQuery,
		sub.ParticipantID,
		sub.QuestionID,
		sub.SubmittedCode,
		sub.Status,
		sub.PointsAwarded,
	).Scan(&sub.ID, &sub.AttemptNumber, &sub.SubmittedAt)
}

func (r *postgresSubmissionRepository) AwardCorrect(ctx context.Context, sub *models.Submission) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin award transaction: %w", err)
	}
	defer tx.Rollback()

	sub.Status = models.SubmissionStatusCorrect
	if err := r.insert(ctx, tx, sub); err != nil {
		if txErr := r.handleSubmissionError(err); txErr != nil {
			return 0, txErr
		}
		return 0, fmt.Errorf("failed to insert correct submission: %w", err)
	}

	var newScore int
	err = tx.QueryRowContext(ctx,
		`UPDATE participants SET score = score + $1 WHERE id = $2 RETURNING score`,
		sub.PointsAwarded, sub.ParticipantID,
	).Scan(&newScore)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrParticipantNotFound
		}
		return 0, fmt.Errorf("failed to increment participant score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit award transaction: %w", err)
	}
	return newScore, nil
}

func (r *postgresSubmissionRepository) CreateAttempt(ctx context.Context, sub *models.Submission) error {
	if sub.Status == "" {
		sub.Status = models.SubmissionStatusPending
	}
	if err := r.insert(ctx, r.db, sub); err != nil {
		if txErr := r.handleSubmissionError(err); txErr != nil {
			return txErr
		}
		return fmt.Errorf("failed to create submission attempt: %w", err)
	}
	return nil
}

func (r *postgresSubmissionRepository) handleSubmissionError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		if pqErr.Constraint == "uq_submissions_correct_once" {
			return ErrSubmissionAlreadySolved
		}
	case "23503": // foreign_key_violation
		switch pqErr.Constraint {
		case "submissions_participant_id_fkey":
			return ErrSubmissionParticipantInvalid
		case "submissions_question_id_fkey":
			return ErrSubmissionQuestionInvalid
		}
	}
	return nil
}

func (r *postgresSubmissionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, participant_id, question_id, submitted_code, status, points_awarded, attempt_number, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC`)
	args := []interface{}{}
	if limit > 0 {
		args = append(args, limit)
		queryBuilder.WriteString(" LIMIT $1")
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)
	for rows.Next() {
		var s models.Submission
		err := rows.Scan(&s.ID, &s.ParticipantID, &s.QuestionID, &s.SubmittedCode,
			&s.Status, &s.PointsAwarded, &s.AttemptNumber, &s.SubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}
	return submissions, nil
}

func (r *postgresSubmissionRepository) Count(ctx context.Context, status *models.SubmissionStatus) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}
