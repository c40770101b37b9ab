package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/okian/devmatch/internal/domain/model"
	"github.com/okian/devmatch/internal/tracing"
	"github.com/okian/devmatch/pkg/metrics"
)

const defaultQueryTimeout = 5 * time.Second

const (
	findProjectQuery = `
SELECT p.id, p.name,
       COALESCE(array_agg(s.skill ORDER BY s.position) FILTER (WHERE s.skill IS NOT NULL), '{}')
  FROM projects p
  LEFT JOIN project_skills s ON s.project_id = p.id
 WHERE p.id = $1
 GROUP BY p.id, p.name`

	findUsersByRoleQuery = `
SELECT id, name, role, skills, experience_years, current_workload, performance_rating
  FROM users
 WHERE role = $1
 ORDER BY created_at, id`
)

// PostgresStore reads projects and users from Postgres.
type PostgresStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// OpenPostgres opens a lib/pq connection pool for dsn and verifies it.
func OpenPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := NewPostgresStore(db, opts...)
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, queryTimeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the connection pool, e.g. for migrations.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// FindByID returns the project with id and its ordered required skills.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (p model.Project, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	ctx, end := tracing.StartDBSpan(ctx, "projects", tracing.DBOperationQuery)
	defer func() { end(ignoreNotFound(err)) }()
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQuery("find_project", float64(time.Since(start).Milliseconds()))
	}()

	var skills pq.StringArray
	err = s.db.QueryRowContext(ctx, findProjectQuery, id).Scan(&p.ID, &p.Name, &skills)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("find project %s: %w", id, err)
	}
	p.RequiredSkills = []string(skills)
	return p, nil
}

// FindByRole returns every user holding role, oldest first.
func (s *PostgresStore) FindByRole(ctx context.Context, role string) (out []model.Candidate, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	ctx, end := tracing.StartDBSpan(ctx, "users", tracing.DBOperationQuery)
	defer func() { end(err) }()
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQuery("find_candidates", float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, findUsersByRoleQuery, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: %w", role, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      model.Candidate
			skills pq.StringArray
			rating sql.NullFloat64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &skills, &c.ExperienceYears, &c.CurrentWorkload, &rating); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		c.Skills = []string(skills)
		if rating.Valid {
			r := rating.Float64
			c.PerformanceRating = &r
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// Import upserts every project and user of seed in one transaction.
func (s *PostgresStore) Import(ctx context.Context, seed Seed) (err error) {
	if err := seed.Validate(); err != nil {
		return err
	}
	ctx, end := tracing.StartDBSpan(ctx, "", tracing.DBOperationExec)
	defer func() { end(err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, p := range seed.Projects {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO projects (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			p.ID, p.Name); err != nil {
			return fmt.Errorf("upsert project %s: %w", p.ID, err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM project_skills WHERE project_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear skills of project %s: %w", p.ID, err)
		}
		for i, skill := range p.RequiredSkills {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO project_skills (project_id, position, skill) VALUES ($1, $2, $3)`,
				p.ID, i, skill); err != nil {
				return fmt.Errorf("insert skill of project %s: %w", p.ID, err)
			}
		}
	}

	for _, u := range seed.Users {
		var rating sql.NullFloat64
		if u.PerformanceRating != nil {
			rating = sql.NullFloat64{Float64: *u.PerformanceRating, Valid: true}
		}
		skills := u.Skills
		if skills == nil {
			skills = []string{}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, name, role, skills, experience_years, current_workload, performance_rating)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO UPDATE
			   SET name = EXCLUDED.name,
			       role = EXCLUDED.role,
			       skills = EXCLUDED.skills,
			       experience_years = EXCLUDED.experience_years,
			       current_workload = EXCLUDED.current_workload,
			       performance_rating = EXCLUDED.performance_rating`,
			u.ID, u.Name, u.Role, pq.Array(skills), u.ExperienceYears, u.CurrentWorkload, rating); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
