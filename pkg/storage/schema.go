package storage

import (
	"context"
	"fmt"
)

// sqliteSchema and postgresSchema hold the same tables in each dialect.
// Choices for a question are stored as a JSON array in the question row; the
// quiz aggregate is always written and read as a whole, so there is nothing
// to join lazily.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		creator_id INTEGER NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quiz_id INTEGER NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		choices TEXT NOT NULL,
		correct_index INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		location TEXT NOT NULL DEFAULT '',
		creator_id INTEGER,
		status TEXT NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0,
		budget REAL,
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS group_plan_participants (
		plan_id INTEGER NOT NULL REFERENCES group_plans(id) ON DELETE CASCADE,
		participant_id INTEGER NOT NULL,
		PRIMARY KEY (plan_id, participant_id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quizzes (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		creator_id BIGINT NOT NULL REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		quiz_id BIGINT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		choices TEXT NOT NULL,
		correct_index INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_plans (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		start_date TIMESTAMPTZ,
		end_date TIMESTAMPTZ,
		location TEXT NOT NULL DEFAULT '',
		creator_id BIGINT,
		status TEXT NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 0,
		budget DOUBLE PRECISION,
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS group_plan_participants (
		plan_id BIGINT NOT NULL REFERENCES group_plans(id) ON DELETE CASCADE,
		participant_id BIGINT NOT NULL,
		PRIMARY KEY (plan_id, participant_id)
	)`,
}

// Migrate creates all tables if they do not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if d.driver == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
