package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS exercises (
	name        TEXT NOT NULL,
	name_key    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT exercises_name_key_unique UNIQUE (name_key)
);

CREATE TABLE IF NOT EXISTS workouts (
	id          UUID PRIMARY KEY,
	owner_sub   TEXT NOT NULL,
	name        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workouts_owner ON workouts(owner_sub, created_at DESC);

CREATE TABLE IF NOT EXISTS workout_sets (
	workout_id    UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
	set_number    INT NOT NULL CHECK (set_number > 0),
	exercise      TEXT NOT NULL,
	exercise_key  TEXT NOT NULL,
	weight        DOUBLE PRECISION NOT NULL,
	reps          INT NOT NULL CHECK (reps > 0),
	PRIMARY KEY (workout_id, set_number)
);

CREATE INDEX IF NOT EXISTS idx_workout_sets_exercise_key ON workout_sets(exercise_key);

CREATE TABLE IF NOT EXISTS templates (
	id          UUID PRIMARY KEY,
	owner_sub   TEXT NOT NULL,
	name        TEXT NOT NULL,
	entries     JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_templates_owner ON templates(owner_sub);

CREATE TABLE IF NOT EXISTS calorie_entries (
	id          UUID PRIMARY KEY,
	owner_sub   TEXT NOT NULL,
	food_name   TEXT NOT NULL,
	calories    INT NOT NULL CHECK (calories > 0),
	entry_date  DATE NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_calorie_entries_owner_date ON calorie_entries(owner_sub, entry_date);

CREATE TABLE IF NOT EXISTS profiles (
	subject_sub   TEXT PRIMARY KEY,
	display_name  TEXT NOT NULL,
	calorie_goal  INT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS location_records (
	id            UUID PRIMARY KEY,
	owner_sub     TEXT NOT NULL,
	lifter_name   TEXT NOT NULL,
	city          TEXT NOT NULL,
	latitude      DOUBLE PRECISION NOT NULL,
	longitude     DOUBLE PRECISION NOT NULL,
	exercise      TEXT NOT NULL,
	exercise_key  TEXT NOT NULL,
	weight        DOUBLE PRECISION NOT NULL,
	reps          INT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_location_records_exercise_key ON location_records(exercise_key);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	idempotency_key  TEXT NOT NULL,
	subject_iss      TEXT NOT NULL,
	subject_sub      TEXT NOT NULL,
	method           TEXT NOT NULL,
	route            TEXT NOT NULL,
	body_hash        TEXT NOT NULL,
	status_code      INT NOT NULL,
	content_type     TEXT NOT NULL,
	body             BYTEA NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (idempotency_key, subject_iss, subject_sub, method, route, body_hash)
);

CREATE INDEX IF NOT EXISTS idx_idempotency_keys_created_at ON idempotency_keys(created_at);
`

// Migrate ensures tables exist. It is safe to call on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
