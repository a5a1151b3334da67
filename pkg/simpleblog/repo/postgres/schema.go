package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the engine's tables. The cross-namespace slug rule
// (posts vs profiles) is enforced in the adapter, not by a constraint, so
// each table only carries its own uniqueness.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	slug VARCHAR(191) NOT NULL,
	identity_name VARCHAR(191) NOT NULL,
	author_name VARCHAR(191) NOT NULL,
	author_email VARCHAR(191) NOT NULL DEFAULT '',
	title VARCHAR(191) NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	blog_theme VARCHAR(191) NOT NULL DEFAULT '',
	avatar VARCHAR(512) NOT NULL DEFAULT '',
	logo VARCHAR(512) NOT NULL DEFAULT '',
	cover VARCHAR(512) NOT NULL DEFAULT '',
	last_updated TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
	CONSTRAINT profiles_slug_key UNIQUE (slug),
	CONSTRAINT profiles_identity_name_key UNIQUE (identity_name)
);

CREATE TABLE IF NOT EXISTS posts (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	profile_id BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	slug VARCHAR(191) NOT NULL,
	title VARCHAR(191) NOT NULL,
	content TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	cover VARCHAR(512) NOT NULL DEFAULT '',
	published TIMESTAMP,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	post_views INTEGER NOT NULL DEFAULT 0,
	last_updated TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
	CONSTRAINT posts_slug_key UNIQUE (slug)
);
CREATE INDEX IF NOT EXISTS posts_profile_id_idx ON posts (profile_id);
CREATE INDEX IF NOT EXISTS posts_recency_idx ON posts ((COALESCE(published, last_updated)) DESC, id DESC);

CREATE TABLE IF NOT EXISTS categories (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	profile_id BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	title VARCHAR(191) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	slug VARCHAR(191) NOT NULL,
	last_updated TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc')
);
CREATE INDEX IF NOT EXISTS categories_profile_title_idx ON categories (profile_id, LOWER(title));

CREATE TABLE IF NOT EXISTS post_categories (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	last_updated TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
	CONSTRAINT post_categories_pair_key UNIQUE (post_id, category_id)
);

CREATE TABLE IF NOT EXISTS custom_fields (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	scope VARCHAR(32) NOT NULL,
	owner_id BIGINT NOT NULL DEFAULT 0,
	key VARCHAR(191) NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	title VARCHAR(191) NOT NULL DEFAULT '',
	last_updated TIMESTAMP NOT NULL DEFAULT (now() AT TIME ZONE 'utc'),
	CONSTRAINT custom_fields_scope_owner_key UNIQUE (scope, owner_id, key)
);
`

// Migrate applies the schema. Statements are idempotent, so running it on
// every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
