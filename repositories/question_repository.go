package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Piyushgeek-gupta/Code-Alchemists/models"
)

var ErrQuestionNotFound = errors.New("question not found")

type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) error
	Update(ctx context.Context, q *models.Question) error
	FindByID(ctx context.Context, id int) (*models.Question, error)
	List(ctx context.Context, language *models.Language, enabledOnly bool) ([]*models.Question, error)
	SetEnabled(ctx context.Context, id int, enabled bool) error
	SetAttachmentKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
	CountEnabled(ctx context.Context) (int, error)
}

type postgresQuestionRepository struct {
	db *sql.DB
}

func NewPostgresQuestionRepository(db *sql.DB) QuestionRepository {
	return &postgresQuestionRepository{db: db}
}

const questionColumns = `id, title, language, difficulty, points, problem_statement, hint, faulty_code, correct_code, test_cases, attachment_key, enabled, created_at`

func (r *postgresQuestionRepository) Create(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (title, language, difficulty, points, problem_statement, hint, faulty_code, correct_code, test_cases, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		q.Title, q.Language, q.Difficulty, q.Points, q.ProblemStatement,
		q.Hint, q.FaultyCode, q.CorrectCode, q.TestCases, q.Enabled,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *postgresQuestionRepository) Update(ctx context.Context, q *models.Question) error {
	query := `
		UPDATE questions
		SET title = $1, language = $2, difficulty = $3, points = $4,
		    problem_statement = $5, hint = $6, faulty_code = $7,
		    correct_code = $8, test_cases = $9, enabled = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		q.Title, q.Language, q.Difficulty, q.Points, q.ProblemStatement,
		q.Hint, q.FaultyCode, q.CorrectCode, q.TestCases, q.Enabled, q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) scanQuestion(rowScanner interface {
	Scan(dest ...interface{}) error
}, q *models.Question) error {
	return rowScanner.Scan(
		&q.ID, &q.Title, &q.Language, &q.Difficulty, &q.Points,
		&q.ProblemStatement, &q.Hint, &q.FaultyCode, &q.CorrectCode,
		&q.TestCases, &q.AttachmentKey, &q.Enabled, &q.CreatedAt,
	)
}

func (r *postgresQuestionRepository) FindByID(ctx context.Context, id int) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q := &models.Question{}
	if err := r.scanQuestion(r.db.QueryRowContext(ctx, query, id), q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return q, nil
}

func (r *postgresQuestionRepository) List(ctx context.Context, language *models.Language, enabledOnly bool) ([]*models.Question, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + questionColumns + ` FROM questions WHERE 1=1`)
	args := []interface{}{}

	if language != nil {
		args = append(args, *language)
		queryBuilder.WriteString(fmt.Sprintf(" AND language = $%d", len(args)))
	}
	if enabledOnly {
		queryBuilder.WriteString(" AND enabled = TRUE")
	}
	queryBuilder.WriteString(" ORDER BY difficulty, points, id")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q := &models.Question{}
		if err := r.scanQuestion(rows, q); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question rows: %w", err)
	}
	return questions, nil
}

func (r *postgresQuestionRepository) SetEnabled(ctx context.Context, id int, enabled bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE questions SET enabled = $1 WHERE id = $2`, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to toggle question: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) SetAttachmentKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE questions SET attachment_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to set question attachment: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return checkAffectedRows(result, ErrQuestionNotFound)
}

func (r *postgresQuestionRepository) CountEnabled(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE enabled = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count enabled questions: %w", err)
	}
	return count, nil
}
