package templaterepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/liftlog/liftlog-api/internal/adapters/postgres"
	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/templaterepo"
)

// Repo is a Postgres implementation of templaterepo.Repository.
// Entries are stored as a JSONB array in insertion order.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t templaterepo.Template) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid template id: %w", err)
	}
	entries, err := encodeEntries(t.Entries)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO templates (id, owner_sub, name, entries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(t.Owner), t.Name, entries, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return templaterepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, t templaterepo.Template) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return templaterepo.ErrNotFound
	}
	entries, err := encodeEntries(t.Entries)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE templates
		SET name = $2,
		    entries = $3,
		    updated_at = $4
		WHERE id = $1
	`, id, t.Name, entries, t.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return templaterepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TemplateID) (templaterepo.Template, error) {
	if r.pool == nil {
		return templaterepo.Template{}, errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(id))
	if err != nil {
		return templaterepo.Template{}, templaterepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_sub, name, entries, created_at, updated_at
		FROM templates
		WHERE id = $1
	`, tid)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return templaterepo.Template{}, templaterepo.ErrNotFound
		}
		return templaterepo.Template{}, err
	}
	return t, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]templaterepo.Template, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_sub, name, entries, created_at, updated_at
		FROM templates
		WHERE owner_sub = $1
		ORDER BY created_at DESC, id ASC
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]templaterepo.Template, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.TemplateID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tid, err := uuid.Parse(string(id))
	if err != nil {
		return templaterepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, tid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return templaterepo.ErrNotFound
	}
	return nil
}

func encodeEntries(entries []templaterepo.Entry) ([]byte, error) {
	if entries == nil {
		entries = []templaterepo.Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode template entries: %w", err)
	}
	return b, nil
}

func scanTemplate(row interface{ Scan(dest ...any) error }) (templaterepo.Template, error) {
	var (
		id      uuid.UUID
		owner   string
		entries []byte
		t       templaterepo.Template
	)
	if err := row.Scan(&id, &owner, &t.Name, &entries, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return templaterepo.Template{}, err
	}
	t.ID = domain.TemplateID(id.String())
	t.Owner = domain.SubjectID(owner)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	t.Entries = []templaterepo.Entry{}
	if len(entries) > 0 {
		if err := json.Unmarshal(entries, &t.Entries); err != nil {
			return templaterepo.Template{}, fmt.Errorf("decode template entries: %w", err)
		}
	}
	return t, nil
}
