package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// ConnectPostgres opens a pool and pings it.
func ConnectPostgres(ctx context.Context, dsn string, timeout time.Duration) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	SQL  string
}

var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT 'Untitled Resume',
			personal_info JSONB NOT NULL DEFAULT '{}'::jsonb,
			education JSONB NOT NULL DEFAULT '[]'::jsonb,
			skills JSONB NOT NULL DEFAULT '[]'::jsonb,
			experience JSONB NOT NULL DEFAULT '[]'::jsonb,
			projects JSONB NOT NULL DEFAULT '[]'::jsonb,
			languages JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "index_resumes_user_created",
		SQL:  `CREATE INDEX IF NOT EXISTS resumes_user_created_idx ON resumes (user_id, created_at DESC)`,
	},
}

// RunMigrations applies Migrations in order and stops at the first failure.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			log.Errorf("migration %s failed: %v", m.Name, err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Debugf("migration %s applied", m.Name)
	}
	log.Infof("postgres migrations complete (%d)", len(Migrations))
	return nil
}
