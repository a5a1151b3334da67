package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const profileColumns = `id, slug, identity_name, author_name, author_email,
       title, description, is_admin, blog_theme, avatar, logo, cover, last_updated`

func scanProfile(row pgx.Row) (*simpleblog.Profile, error) {
	var p simpleblog.Profile
	err := row.Scan(
		&p.ID, &p.Slug, &p.IdentityName, &p.AuthorName, &p.AuthorEmail,
		&p.Title, &p.Description, &p.IsAdmin, &p.BlogTheme,
		&p.Avatar, &p.Logo, &p.Cover, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (u *unitOfWork) CreateProfile(ctx context.Context, profile *simpleblog.Profile) error {
	query := `
		INSERT INTO profiles (
			slug, identity_name, author_name, author_email, title,
			description, is_admin, blog_theme, avatar, logo, cover, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := u.db.QueryRow(ctx, query,
		profile.Slug, profile.IdentityName, profile.AuthorName, profile.AuthorEmail,
		profile.Title, profile.Description, profile.IsAdmin, profile.BlogTheme,
		profile.Avatar, profile.Logo, profile.Cover, profile.LastUpdated).Scan(&profile.ID)
	if err != nil {
		return mapError("create profile", err)
	}
	return nil
}

func (u *unitOfWork) GetProfile(ctx context.Context, id int64) (*simpleblog.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(u.db.QueryRow(ctx, query, id))
}

func (u *unitOfWork) GetProfileBySlug(ctx context.Context, slug string) (*simpleblog.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE slug = $1`
	return scanProfile(u.db.QueryRow(ctx, query, slug))
}

func (u *unitOfWork) GetProfileByIdentity(ctx context.Context, identity string) (*simpleblog.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE identity_name = $1`
	return scanProfile(u.db.QueryRow(ctx, query, identity))
}

func (u *unitOfWork) UpdateProfile(ctx context.Context, profile *simpleblog.Profile) error {
	query := `
		UPDATE profiles SET
			slug = $2, identity_name = $3, author_name = $4, author_email = $5,
			title = $6, description = $7, is_admin = $8, blog_theme = $9,
			avatar = $10, logo = $11, cover = $12, last_updated = $13
		WHERE id = $1`

	tag, err := u.db.Exec(ctx, query,
		profile.ID, profile.Slug, profile.IdentityName, profile.AuthorName,
		profile.AuthorEmail, profile.Title, profile.Description, profile.IsAdmin,
		profile.BlogTheme, profile.Avatar, profile.Logo, profile.Cover, profile.LastUpdated)
	if err != nil {
		return mapError("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrProfileNotFound
	}
	return nil
}

func (u *unitOfWork) DeleteProfile(ctx context.Context, id int64) error {
	// Child rows cascade through the schema's ON DELETE clauses.
	tag, err := u.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return mapError("delete profile", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrProfileNotFound
	}
	_, err = u.db.Exec(ctx,
		`DELETE FROM custom_fields WHERE scope = $1 AND owner_id = $2`,
		simpleblog.ScopeProfile, id)
	if err != nil {
		return mapError("delete profile fields", err)
	}
	return nil
}

func (u *unitOfWork) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := u.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return 0, mapError("count profiles", err)
	}
	return count, nil
}

func (u *unitOfWork) ProfileSlugTaken(ctx context.Context, slug string) (bool, error) {
	var taken bool
	err := u.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE slug = $1)`, slug).Scan(&taken)
	if err != nil {
		return false, mapError("profile slug taken", err)
	}
	return taken, nil
}
