package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

const categoryColumns = `id, profile_id, title, description, slug, last_updated`

func scanCategory(row pgx.Row) (*simpleblog.Category, error) {
	var c simpleblog.Category
	err := row.Scan(&c.ID, &c.ProfileID, &c.Title, &c.Description, &c.Slug, &c.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simpleblog.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (u *unitOfWork) CreateCategory(ctx context.Context, category *simpleblog.Category) error {
	query := `
		INSERT INTO categories (profile_id, title, description, slug, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := u.db.QueryRow(ctx, query,
		category.ProfileID, category.Title, category.Description,
		category.Slug, category.LastUpdated).Scan(&category.ID)
	if err != nil {
		return mapError("create category", err)
	}
	return nil
}

func (u *unitOfWork) GetCategory(ctx context.Context, id int64) (*simpleblog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(u.db.QueryRow(ctx, query, id))
}

func (u *unitOfWork) GetCategoryByTitle(ctx context.Context, profileID int64, title string) (*simpleblog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE profile_id = $1 AND LOWER(title) = LOWER($2)`
	return scanCategory(u.db.QueryRow(ctx, query, profileID, title))
}

func (u *unitOfWork) UpdateCategory(ctx context.Context, category *simpleblog.Category) error {
	query := `
		UPDATE categories SET
			profile_id = $2, title = $3, description = $4, slug = $5, last_updated = $6
		WHERE id = $1`

	tag, err := u.db.Exec(ctx, query,
		category.ID, category.ProfileID, category.Title, category.Description,
		category.Slug, category.LastUpdated)
	if err != nil {
		return mapError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrCategoryNotFound
	}
	return nil
}

func (u *unitOfWork) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := u.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return simpleblog.ErrCategoryNotFound
	}
	return nil
}

func (u *unitOfWork) ListCategories(ctx context.Context, profileID int64) ([]*simpleblog.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	var args []interface{}
	if profileID != 0 {
		query += ` WHERE profile_id = $1`
		args = append(args, profileID)
	}
	query += ` ORDER BY LOWER(title), id`

	rows, err := u.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	var categories []*simpleblog.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (u *unitOfWork) CategoriesForPost(ctx context.Context, postID int64) ([]simpleblog.CategoryRef, error) {
	query := `
		SELECT c.id, c.title
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = $1
		ORDER BY LOWER(c.title), c.id`

	rows, err := u.db.Query(ctx, query, postID)
	if err != nil {
		return nil, mapError("categories for post", err)
	}
	defer rows.Close()

	var refs []simpleblog.CategoryRef
	for rows.Next() {
		var ref simpleblog.CategoryRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (u *unitOfWork) ListPostCategories(ctx context.Context, postID int64) ([]*simpleblog.PostCategory, error) {
	query := `
		SELECT id, post_id, category_id, last_updated
		FROM post_categories WHERE post_id = $1
		ORDER BY id`

	rows, err := u.db.Query(ctx, query, postID)
	if err != nil {
		return nil, mapError("list post categories", err)
	}
	defer rows.Close()

	var links []*simpleblog.PostCategory
	for rows.Next() {
		var link simpleblog.PostCategory
		if err := rows.Scan(&link.ID, &link.PostID, &link.CategoryID, &link.LastUpdated); err != nil {
			return nil, err
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

func (u *unitOfWork) AddPostCategory(ctx context.Context, postID, categoryID int64) error {
	query := `
		INSERT INTO post_categories (post_id, category_id, last_updated)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, category_id) DO NOTHING`

	if _, err := u.db.Exec(ctx, query, postID, categoryID); err != nil {
		return mapError("add post category", err)
	}
	return nil
}

func (u *unitOfWork) RemovePostCategory(ctx context.Context, postID, categoryID int64) error {
	query := `DELETE FROM post_categories WHERE post_id = $1 AND category_id = $2`
	if _, err := u.db.Exec(ctx, query, postID, categoryID); err != nil {
		return mapError("remove post category", err)
	}
	return nil
}

func (u *unitOfWork) CategoryStats(ctx context.Context, categoryID int64) (simpleblog.CategoryStats, error) {
	query := `
		SELECT COUNT(p.id), COALESCE(SUM(p.post_views), 0)
		FROM post_categories pc
		JOIN posts p ON p.id = pc.post_id
		WHERE pc.category_id = $1`

	stats := simpleblog.CategoryStats{CategoryID: categoryID}
	err := u.db.QueryRow(ctx, query, categoryID).Scan(&stats.PostCount, &stats.ViewCount)
	if err != nil {
		return simpleblog.CategoryStats{}, mapError("category stats", err)
	}
	return stats, nil
}
