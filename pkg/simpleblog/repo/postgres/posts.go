package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const postColumns = `id, profile_id, slug, title, content, description,
       cover, published, is_featured, post_views, last_updated`

// Drafts have NULL published; the engine uses the zero time as the draft
// sentinel, so the adapter converts at the boundary.
func nullPublished(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func scanPost(row pgx.Row) (*simpleblog.Post, error) {
	var p simpleblog.Post
	var published sql.NullTime
	err := row.Scan(
		&p.ID, &p.ProfileID, &p.Slug, &p.Title, &p.Content, &p.Description,
		&p.Cover, &published, &p.IsFeatured, &p.PostViews, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrPostNotFound
		}
		return nil, err
	}
	if published.Valid {
		p.Published = published.Time
	}
	return &p, nil
}

func scanPosts(rows pgx.Rows) ([]*simpleblog.Post, error) {
	defer rows.Close()
	var posts []*simpleblog.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (u *unitOfWork) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	taken, err := u.PostSlugTaken(ctx, post.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return simpleblog.ErrSlugTaken
	}

	query := `
		INSERT INTO posts (
			profile_id, slug, title, content, description, cover,
			published, is_featured, post_views, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err = u.db.QueryRow(ctx, query,
		post.ProfileID, post.Slug, post.Title, post.Content, post.Description,
		post.Cover, nullPublished(post.Published), post.IsFeatured,
		post.PostViews, post.LastUpdated).Scan(&post.ID)
	if err != nil {
		return mapError("create post", err)
	}
	return nil
}

func (u *unitOfWork) GetPost(ctx context.Context, id int64) (*simpleblog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(u.db.QueryRow(ctx, query, id))
}

func (u *unitOfWork) GetPostBySlug(ctx context.Context, slug string) (*simpleblog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	return scanPost(u.db.QueryRow(ctx, query, slug))
}

func (u *unitOfWork) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	taken, err := u.PostSlugTaken(ctx, post.Slug, post.ID)
	if err != nil {
		return err
	}
	if taken {
		return simpleblog.ErrSlugTaken
	}

	query := `
		UPDATE posts SET
			profile_id = $2, slug = $3, title = $4, content = $5,
			description = $6, cover = $7, published = $8, is_featured = $9,
			post_views = $10, last_updated = $11
		WHERE id = $1`

	tag, err := u.db.Exec(ctx, query,
		post.ID, post.ProfileID, post.Slug, post.Title, post.Content,
		post.Description, post.Cover, nullPublished(post.Published),
		post.IsFeatured, post.PostViews, post.LastUpdated)
	if err != nil {
		return mapError("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrPostNotFound
	}
	return nil
}

func (u *unitOfWork) DeletePost(ctx context.Context, id int64) error {
	tag, err := u.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrPostNotFound
	}
	return nil
}

func (u *unitOfWork) PostSlugTaken(ctx context.Context, slug string, excludePostID int64) (bool, error) {
	// Posts and profile pages share one flat URL namespace.
	query := `
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
		    OR EXISTS (SELECT 1 FROM profiles WHERE slug = $1)`

	var taken bool
	if err := u.db.QueryRow(ctx, query, slug, excludePostID).Scan(&taken); err != nil {
		return false, mapError("post slug taken", err)
	}
	return taken, nil
}

// buildPostFilter renders the dynamic WHERE clause for a PostFilter and
// returns it with its bind arguments.
func buildPostFilter(filter simpleblog.PostFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.ProfileID != 0 {
		args = append(args, filter.ProfileID)
		conds = append(conds, fmt.Sprintf("p.profile_id = $%d", len(args)))
	}
	switch filter.Status {
	case simpleblog.StatusDraft:
		conds = append(conds, "p.published IS NULL")
	case simpleblog.StatusPublished:
		conds = append(conds, "p.published IS NOT NULL")
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		conds = append(conds, fmt.Sprintf(
			"p.id IN (SELECT post_id FROM post_categories WHERE category_id = ANY($%d))", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (u *unitOfWork) ListPosts(ctx context.Context, filter simpleblog.PostFilter) ([]*simpleblog.Post, error) {
	where, args := buildPostFilter(filter)
	query := `SELECT ` + postColumns + ` FROM posts p` + where +
		` ORDER BY COALESCE(p.published, p.last_updated) DESC, p.id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := u.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list posts", err)
	}
	return scanPosts(rows)
}

func (u *unitOfWork) CountPosts(ctx context.Context, filter simpleblog.PostFilter) (int, error) {
	where, args := buildPostFilter(filter)
	var count int
	err := u.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&count)
	if err != nil {
		return 0, mapError("count posts", err)
	}
	return count, nil
}

func (u *unitOfWork) SearchPosts(ctx context.Context, term string, profileID int64, limit, offset int) ([]*simpleblog.Post, int, error) {
	var conds []string
	var args []interface{}

	if term = strings.TrimSpace(term); term != "" {
		args = append(args, "%"+term+"%")
		conds = append(conds, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args)))
	}
	if profileID != 0 {
		args = append(args, profileID)
		conds = append(conds, fmt.Sprintf("p.profile_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := u.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("search posts", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts p` + where +
		` ORDER BY COALESCE(p.published, p.last_updated) DESC, p.id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := u.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("search posts", err)
	}
	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (u *unitOfWork) IncrementPostViews(ctx context.Context, id int64) error {
	tag, err := u.db.Exec(ctx,
		`UPDATE posts SET post_views = post_views + 1 WHERE id = $1`, id)
	if err != nil {
		return mapError("increment post views", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrPostNotFound
	}
	return nil
}
