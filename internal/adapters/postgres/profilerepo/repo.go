package profilerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liftlog/liftlog-api/internal/domain"
	"github.com/liftlog/liftlog-api/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, subject domain.SubjectID) (profilerepo.Profile, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, errors.New("nil postgres pool")
	}
	var (
		p    profilerepo.Profile
		goal *int32
	)
	err := r.pool.QueryRow(ctx, `
		SELECT display_name, calorie_goal, created_at, updated_at
		FROM profiles
		WHERE subject_sub = $1
	`, string(subject)).Scan(&p.DisplayName, &goal, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, err
	}
	p.Subject = subject
	if goal != nil {
		v := int(*goal)
		p.CalorieGoal = &v
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *Repo) Upsert(ctx context.Context, p profilerepo.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	var goal *int32
	if p.CalorieGoal != nil {
		v := int32(*p.CalorieGoal)
		goal = &v
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (subject_sub, display_name, calorie_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (subject_sub)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			calorie_goal = EXCLUDED.calorie_goal,
			updated_at = EXCLUDED.updated_at
	`, string(p.Subject), p.DisplayName, goal, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return err
}
