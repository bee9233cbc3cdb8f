package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Схема применяется при старте (idempotent DDL). Частичный уникальный
// индекс uq_submissions_correct_once — точка сериализации начисления:
// вторая строка correct для пары (participant, question) невозможна
// на уровне хранилища.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'participant',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id         SERIAL PRIMARY KEY,
		user_id    INT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		full_name  TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contests (
		id               SERIAL PRIMARY KEY,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'scheduled',
		start_time       TIMESTAMPTZ,
		end_time         TIMESTAMPTZ,
		duration_minutes INT NOT NULL DEFAULT 30,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS contest_settings (
		id                 SERIAL PRIMARY KEY,
		contest_id         INT NOT NULL UNIQUE REFERENCES contests(id) ON DELETE CASCADE,
		allow_resubmission BOOLEAN NOT NULL DEFAULT FALSE,
		show_leaderboard   BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id                 SERIAL PRIMARY KEY,
		user_id            INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contest_id         INT REFERENCES contests(id) ON DELETE SET NULL,
		selected_language  TEXT,
		score              INT NOT NULL DEFAULT 0 CHECK (score >= 0),
		time_taken_seconds INT NOT NULL DEFAULT 0,
		completed_at       TIMESTAMPTZ,
		is_blocked         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT participants_user_id_contest_id_key UNIQUE (user_id, contest_id)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id                SERIAL PRIMARY KEY,
		title             TEXT NOT NULL,
		language          TEXT NOT NULL,
		difficulty        TEXT NOT NULL DEFAULT 'easy',
		points            INT NOT NULL DEFAULT 10,
		problem_statement TEXT NOT NULL DEFAULT '',
		hint              TEXT NOT NULL DEFAULT '',
		faulty_code       TEXT NOT NULL DEFAULT '',
		correct_code      TEXT NOT NULL DEFAULT '',
		test_cases        JSONB NOT NULL DEFAULT '[]',
		attachment_key    TEXT,
		enabled           BOOLEAN NOT NULL DEFAULT TRUE,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id             SERIAL PRIMARY KEY,
		participant_id INT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		question_id    INT REFERENCES questions(id) ON DELETE SET NULL,
		submitted_code TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'pending',
		points_awarded INT NOT NULL DEFAULT 0,
		attempt_number INT NOT NULL DEFAULT 1,
		submitted_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_submissions_correct_once
		ON submissions (participant_id, question_id)
		WHERE status = 'correct'`,
	`CREATE TABLE IF NOT EXISTS submission_audit_logs (
		id                SERIAL PRIMARY KEY,
		participant_id    INT NOT NULL,
		participant_name  TEXT,
		participant_email TEXT,
		question_id       INT,
		points_awarded    INT NOT NULL DEFAULT 0,
		time_left_seconds INT,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS announcements (
		id         SERIAL PRIMARY KEY,
		contest_id INT NOT NULL REFERENCES contests(id) ON DELETE CASCADE,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate применяет схему. Все выражения идемпотентны, поэтому вызов
// безопасен при каждом старте сервера.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
