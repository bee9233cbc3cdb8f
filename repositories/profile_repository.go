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
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileUserInvalid = errors.New("profile user conflict or invalid")
)

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByUserID(ctx context.Context, userID int) (*models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID int) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.FullName, p.Email).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrProfileUserInvalid
			case "23503": // foreign_key_violation
				return ErrProfileUserInvalid
			}
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *postgresProfileRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Profile, error) {
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.UserID, &p.FullName, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return p, nil
}

func (r *postgresProfileRepository) FindByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	query := `SELECT id, user_id, full_name, email, created_at FROM profiles WHERE user_id = $1`
	return r.findOne(ctx, query, userID)
}

func (r *postgresProfileRepository) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT id, user_id, full_name, email, created_at FROM profiles WHERE email = $1 LIMIT 1`
	return r.findOne(ctx, query, email)
}

func (r *postgresProfileRepository) DeleteByUserID(ctx context.Context, userID int) error {
	query := `DELETE FROM profiles WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
