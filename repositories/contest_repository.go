package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
)

var (
	ErrContestNotFound         = errors.New("contest not found")
	ErrContestSettingsNotFound = errors.New("contest settings not found")
)

type ContestRepository interface {
	Create(ctx context.Context, c *models.Contest) error
	Update(ctx context.Context, c *models.Contest) error
	UpdateStatus(ctx context.Context, id int, status models.ContestStatus) error
	FindByID(ctx context.Context, id int) (*models.Contest, error)
	List(ctx context.Context) ([]*models.Contest, error)
	ListByStatus(ctx context.Context, status models.ContestStatus) ([]*models.Contest, error)
	Delete(ctx context.Context, id int) error
	CountByStatus(ctx context.Context, status models.ContestStatus) (int, error)

	// ActivateDue/CompleteExpired — массовые переводы статусов по датам,
	// используются планировщиком. Paused-конкурсы не трогаются.
	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)

	GetSettings(ctx context.Context, contestID int) (*models.ContestSettings, error)
	UpsertSettings(ctx context.Context, s *models.ContestSettings) error
}

type postgresContestRepository struct {
	db *sql.DB
}

func NewPostgresContestRepository(db *sql.DB) ContestRepository {
	return &postgresContestRepository{db: db}
}

const contestColumns = `id, name, description, status, start_time, end_time, duration_minutes, created_at`

func (r *postgresContestRepository) Create(ctx context.Context, c *models.Contest) error {
	query := `
		INSERT INTO contests (name, description, status, start_time, end_time, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Description, c.Status, c.StartTime, c.EndTime, c.DurationMinutes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contest: %w", err)
	}
	return nil
}

func (r *postgresContestRepository) Update(ctx context.Context, c *models.Contest) error {
	query := `
		UPDATE contests
		SET name = $1, description = $2, start_time = $3, end_time = $4, duration_minutes = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Description, c.StartTime, c.EndTime, c.DurationMinutes, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contest: %w", err)
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) UpdateStatus(ctx context.Context, id int, status models.ContestStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE contests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update contest status: %w", err)
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) scanContest(rowScanner interface {
	Scan(dest ...interface{}) error
}, c *models.Contest) error {
	return rowScanner.Scan(&c.ID, &c.Name, &c.Description, &c.Status,
		&c.StartTime, &c.EndTime, &c.DurationMinutes, &c.CreatedAt)
}

func (r *postgresContestRepository) FindByID(ctx context.Context, id int) (*models.Contest, error) {
	c := &models.Contest{}
	err := r.scanContest(r.db.QueryRowContext(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = $1`, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to find contest: %w", err)
	}
	return c, nil
}

func (r *postgresContestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Contest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	defer rows.Close()

	contests := make([]*models.Contest, 0)
	for rows.Next() {
		c := &models.Contest{}
		if err := r.scanContest(rows, c); err != nil {
			return nil, fmt.Errorf("failed to scan contest row: %w", err)
		}
		contests = append(contests, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contest rows: %w", err)
	}
	return contests, nil
}

func (r *postgresContestRepository) List(ctx context.Context) ([]*models.Contest, error) {
	return r.list(ctx, `SELECT `+contestColumns+` FROM contests ORDER BY created_at DESC`)
}

func (r *postgresContestRepository) ListByStatus(ctx context.Context, status models.ContestStatus) ([]*models.Contest, error) {
	return r.list(ctx, `SELECT `+contestColumns+` FROM contests WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *postgresContestRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contest: %w", err)
	}
	return checkAffectedRows(result, ErrContestNotFound)
}

func (r *postgresContestRepository) CountByStatus(ctx context.Context, status models.ContestStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contests: %w", err)
	}
	return count, nil
}

func (r *postgresContestRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE contests
		SET status = 'active'
		WHERE status = 'scheduled' AND start_time IS NOT NULL AND start_time <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to activate due contests: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresContestRepository) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE contests
		SET status = 'completed'
		WHERE status = 'active' AND end_time IS NOT NULL AND end_time <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to complete expired contests: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresContestRepository) GetSettings(ctx context.Context, contestID int) (*models.ContestSettings, error) {
	s := &models.ContestSettings{}
	query := `SELECT id, contest_id, allow_resubmission, show_leaderboard, updated_at FROM contest_settings WHERE contest_id = $1`
	err := r.db.QueryRowContext(ctx, query, contestID).
		Scan(&s.ID, &s.ContestID, &s.AllowResubmission, &s.ShowLeaderboard, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContestSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get contest settings: %w", err)
	}
	return s, nil
}

func (r *postgresContestRepository) UpsertSettings(ctx context.Context, s *models.ContestSettings) error {
	query := `
		INSERT INTO contest_settings (contest_id, allow_resubmission, show_leaderboard, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (contest_id) DO UPDATE
		SET allow_resubmission = EXCLUDED.allow_resubmission,
		    show_leaderboard = EXCLUDED.show_leaderboard,
		    updated_at = now()
		RETURNING id, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ContestID, s.AllowResubmission, s.ShowLeaderboard).
		Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert contest settings: %w", err)
	}
	return nil
}
