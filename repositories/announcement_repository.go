package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
	"github.com/lib/pq"
)

var (
	ErrAnnouncementNotFound       = errors.New("announcement not found")
	ErrAnnouncementContestInvalid = errors.New("announcement contest conflict or invalid")
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	ListByContest(ctx context.Context, contestID *int) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int) error
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

func (r *postgresAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (contest_id, message)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.ContestID, a.Message).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrAnnouncementContestInvalid
		}
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *postgresAnnouncementRepository) ListByContest(ctx context.Context, contestID *int) ([]*models.Announcement, error) {
	query := `
		SELECT a.id, a.contest_id, a.message, a.created_at, c.id, c.name
		FROM announcements a
		JOIN contests c ON a.contest_id = c.id`
	args := []interface{}{}
	if contestID != nil {
		query += ` WHERE a.contest_id = $1`
		args = append(args, *contestID)
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		var c models.Contest
		if err := rows.Scan(&a.ID, &a.ContestID, &a.Message, &a.CreatedAt, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", err)
		}
		a.Contest = &c
		announcements = append(announcements, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}
	return announcements, nil
}

func (r *postgresAnnouncementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}
