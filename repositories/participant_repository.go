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
	ErrParticipantNotFound       = errors.New("participant not found")
	ErrParticipantConflict       = errors.New("participant conflict: user already enrolled in this contest")
	ErrParticipantUserInvalid    = errors.New("participant user conflict or invalid")
	ErrParticipantContestInvalid = errors.New("participant contest conflict or invalid")
)

// ParticipantCountFilter описывает срез для подсчёта участников в аналитике.
type ParticipantCountFilter struct {
	Completed *bool
	Blocked   *bool
	Language  *models.Language
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	FindByUserID(ctx context.Context, userID int) (*models.Participant, error)
	GetScore(ctx context.Context, id int) (int, error)
	// SetLanguageIfUnset обновляет язык только у строк с NULL-языком.
	// Ноль затронутых строк — не ошибка: выбор уже сделан и остаётся в силе.
	SetLanguageIfUnset(ctx context.Context, userID int, lang models.Language) error
	ResetLanguage(ctx context.Context, id int) error
	SetBlocked(ctx context.Context, id int, blocked bool) error
	ResetProgress(ctx context.Context, id int) error
	Complete(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
	ListWithDetails(ctx context.Context) ([]*models.Participant, error)
	Leaderboard(ctx context.Context, contestID *int, limit int) ([]*models.LeaderboardEntry, error)
	Count(ctx context.Context, filter ParticipantCountFilter) (int, error)
	AverageScore(ctx context.Context) (float64, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (user_id, contest_id, selected_language, score)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID,
		p.ContestID,
		p.SelectedLanguage,
		p.Score,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "participants_user_id_contest_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_contest_id_fkey":
					return ErrParticipantContestInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Participant) error {
	return rowScanner.Scan(
		&p.ID,
		&p.UserID,
		&p.ContestID,
		&p.SelectedLanguage,
		&p.Score,
		&p.TimeTakenSeconds,
		&p.CompletedAt,
		&p.IsBlocked,
		&p.CreatedAt,
	)
}

const participantColumns = `id, user_id, contest_id, selected_language, score, time_taken_seconds, completed_at, is_blocked, created_at`

func (r *postgresParticipantRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanParticipant(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresParticipantRepository) FindByUserID(ctx context.Context, userID int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`
	return r.findOne(ctx, query, userID)
}

func (r *postgresParticipantRepository) GetScore(ctx context.Context, id int) (int, error) {
	var score int
	err := r.db.QueryRowContext(ctx, `SELECT score FROM participants WHERE id = $1`, id).Scan(&score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrParticipantNotFound
		}
		return 0, fmt.Errorf("failed to get participant score: %w", err)
	}
	return score, nil
}

func (r *postgresParticipantRepository) SetLanguageIfUnset(ctx context.Context, userID int, lang models.Language) error {
	query := `UPDATE participants SET selected_language = $1 WHERE user_id = $2 AND selected_language IS NULL`
	if _, err := r.db.ExecContext(ctx, query, lang, userID); err != nil {
		return fmt.Errorf("failed to set participant language: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) ResetLanguage(ctx context.Context, id int) error {
	query := `UPDATE participants SET selected_language = NULL WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reset participant language: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetBlocked(ctx context.Context, id int, blocked bool) error {
	query := `UPDATE participants SET is_blocked = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, blocked, id)
	if err != nil {
		return fmt.Errorf("failed to update participant blocked flag: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ResetProgress(ctx context.Context, id int) error {
	query := `UPDATE participants SET score = 0, time_taken_seconds = 0, completed_at = NULL WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reset participant progress: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// Complete фиксирует завершение конкурса. Время считается на сервере от
// created_at; повторный вызов ничего не меняет (completed_at уже задан).
func (r *postgresParticipantRepository) Complete(ctx context.Context, id int) error {
	query := `
		UPDATE participants
		SET completed_at = now(),
		    time_taken_seconds = EXTRACT(EPOCH FROM (now() - created_at))::int
		WHERE id = $1 AND completed_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to complete participant contest: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM participants WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ListWithDetails(ctx context.Context) ([]*models.Participant, error) {
	query := `
		SELECT
			p.id, p.user_id, p.contest_id, p.selected_language, p.score,
			p.time_taken_seconds, p.completed_at, p.is_blocked, p.created_at,
			COALESCE(pr.id, 0), COALESCE(pr.full_name, ''), COALESCE(pr.email, ''),
			COALESCE(c.id, 0), COALESCE(c.name, '')
		FROM participants p
		LEFT JOIN profiles pr ON p.user_id = pr.user_id
		LEFT JOIN contests c ON p.contest_id = c.id
		ORDER BY p.score DESC, p.time_taken_seconds ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var pr models.Profile
		var c models.Contest
		err := rows.Scan(
			&p.ID, &p.UserID, &p.ContestID, &p.SelectedLanguage, &p.Score,
			&p.TimeTakenSeconds, &p.CompletedAt, &p.IsBlocked, &p.CreatedAt,
			&pr.ID, &pr.FullName, &pr.Email,
			&c.ID, &c.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		if pr.ID > 0 {
			pr.UserID = p.UserID
			p.Profile = &pr
		}
		if p.ContestID != nil && c.ID > 0 {
			p.Contest = &c
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Leaderboard(ctx context.Context, contestID *int, limit int) ([]*models.LeaderboardEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT p.id, COALESCE(pr.full_name, ''), p.selected_language, p.score, p.time_taken_seconds, p.completed_at
		FROM participants p
		LEFT JOIN profiles pr ON p.user_id = pr.user_id
		WHERE p.is_blocked = FALSE`)

	args := []interface{}{}
	if contestID != nil {
		args = append(args, *contestID)
		queryBuilder.WriteString(fmt.Sprintf(" AND p.contest_id = $%d", len(args)))
	}
	queryBuilder.WriteString(" ORDER BY p.score DESC, p.time_taken_seconds ASC")
	if limit > 0 {
		args = append(args, limit)
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.ParticipantID, &e.FullName, &e.SelectedLanguage, &e.Score, &e.TimeTakenSeconds, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return entries, nil
}

func (r *postgresParticipantRepository) Count(ctx context.Context, filter ParticipantCountFilter) (int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM participants WHERE 1=1`)
	args := []interface{}{}

	if filter.Completed != nil {
		if *filter.Completed {
			queryBuilder.WriteString(" AND completed_at IS NOT NULL")
		} else {
			queryBuilder.WriteString(" AND completed_at IS NULL")
		}
	}
	if filter.Blocked != nil {
		args = append(args, *filter.Blocked)
		queryBuilder.WriteString(fmt.Sprintf(" AND is_blocked = $%d", len(args)))
	}
	if filter.Language != nil {
		args = append(args, *filter.Language)
		queryBuilder.WriteString(fmt.Sprintf(" AND selected_language = $%d", len(args)))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, queryBuilder.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) AverageScore(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(score), 0) FROM participants`).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to compute average score: %w", err)
	}
	return avg, nil
}
