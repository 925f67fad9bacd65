package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

const schemaSQL = `
create table if not exists funding_projects (
  id          text primary key,
  owner_id    text not null,
  doc         jsonb not null,
  created_at  timestamptz not null default now(),
  updated_at  timestamptz not null default now()
);
create index if not exists funding_projects_owner_idx on funding_projects (owner_id);
`

// Pool is the part of *pgxpool.Pool the store needs.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps each project as one JSONB document and serializes
// writes per project with a row lock.
type PostgresStore struct {
	db Pool
}

func NewPostgresStore(db Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the projects table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, p *domain.Project) error {
	if p.OwnerID == "" {
		return fmt.Errorf("owner id required")
	}
	generate := p.ID == ""
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	for i := 0; i < maxCreateAttempts; i++ {
		if generate {
			id, err := domain.NewProjectID()
			if err != nil {
				return err
			}
			p.ID = id
		}

		doc, err := encode(p)
		if err != nil {
			return err
		}

		const q = `
insert into funding_projects (id, owner_id, doc, created_at, updated_at)
values ($1, $2, $3::jsonb, $4, $4);
`
		_, err = s.db.Exec(ctx, q, p.ID, p.OwnerID, doc, now)
		if err == nil {
			return nil
		}

		// unique violation on id → retry with a fresh one
		var pgErr *pgconn.PgError
		if generate && errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return err
	}

	return fmt.Errorf("failed to generate unique project id")
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	var doc []byte
	err := s.db.QueryRow(ctx, `select doc from funding_projects where id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("project", id)
		}
		return nil, err
	}
	return decode(doc)
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
select doc
from funding_projects
where owner_id = $1
order by created_at desc;
`
	rows, err := s.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		p, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `select id from funding_projects order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Project, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var doc []byte
	err = tx.QueryRow(ctx, `
select doc
from funding_projects
where id = $1
for update
`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("project", id)
		}
		return nil, err
	}

	p, err := decode(doc)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()

	out, err := encode(p)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
update funding_projects
set doc = $2::jsonb,
    updated_at = $3
where id = $1
`, id, out, p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
