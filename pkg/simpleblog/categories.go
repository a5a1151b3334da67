package simpleblog

import (
	"context"
	"errors"
	"strings"
	"time"
)

func (s *service) ListCategories(ctx context.Context, profileID int64) ([]*Category, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	categories, err := uow.ListCategories(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return categories, uow.Complete(ctx)
}

func (s *service) CategoriesForPost(ctx context.Context, postID int64) ([]CategoryRef, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	refs, err := uow.CategoriesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return refs, uow.Complete(ctx)
}

// AddOrGetCategory returns the profile's category with the given title,
// creating it first when absent. Lookup is always scoped to the profile;
// the same title may exist under different profiles.
func (s *service) AddOrGetCategory(ctx context.Context, profileID int64, title string) (*Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if profileID < 1 {
		return nil, &ValidationError{Field: "profile_id", Reason: "must be positive"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	category, err := uow.GetCategoryByTitle(ctx, profileID, title)
	if err == nil {
		return category, uow.Complete(ctx)
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	category = &Category{
		ProfileID:   profileID,
		Title:       title,
		Description: title,
		Slug:        Slugify(title),
		LastUpdated: time.Now().UTC(),
	}
	if err := uow.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, uow.Complete(ctx)
}

func (s *service) SaveCategory(ctx context.Context, req SaveCategoryRequest) (*Category, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	var category *Category
	if req.ID > 0 {
		category, err = uow.GetCategory(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		category.Title = title
		category.Description = orTitle(req.Description, title)
		category.LastUpdated = time.Now().UTC()
		if err := uow.UpdateCategory(ctx, category); err != nil {
			return nil, err
		}
	} else {
		if req.ProfileID < 1 {
			return nil, &ValidationError{Field: "profile_id", Reason: "must be positive"}
		}
		category = &Category{
			ProfileID:   req.ProfileID,
			Title:       title,
			Description: orTitle(req.Description, title),
			Slug:        Slugify(title),
			LastUpdated: time.Now().UTC(),
		}
		if err := uow.CreateCategory(ctx, category); err != nil {
			return nil, err
		}
	}
	return category, uow.Complete(ctx)
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := uow.DeleteCategory(ctx, id); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) AssignCategory(ctx context.Context, postID, categoryID int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetPost(ctx, postID); err != nil {
		return err
	}
	if _, err := uow.GetCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := uow.AddPostCategory(ctx, postID, categoryID); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) UnassignCategory(ctx context.Context, postID, categoryID int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if err := uow.RemovePostCategory(ctx, postID, categoryID); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) ReplacePostCategories(ctx context.Context, postID int64, categoryIDs []int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetPost(ctx, postID); err != nil {
		return err
	}
	if err := replaceAssociations(ctx, uow, postID, categoryIDs); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

func (s *service) CategoryStats(ctx context.Context, categoryID int64) (CategoryStats, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return CategoryStats{}, err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetCategory(ctx, categoryID); err != nil {
		return CategoryStats{}, err
	}
	stats, err := uow.CategoryStats(ctx, categoryID)
	if err != nil {
		return CategoryStats{}, err
	}
	return stats, uow.Complete(ctx)
}

// replaceAssociations sets the post's category links to exactly the given
// set as a diff: links missing from the new set are removed and new ones
// added, so retained links keep their timestamps.
func replaceAssociations(ctx context.Context, uow UnitOfWork, postID int64, categoryIDs []int64) error {
	existing, err := uow.ListPostCategories(ctx, postID)
	if err != nil {
		return err
	}

	keep := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		keep[id] = true
	}

	current := make(map[int64]bool, len(existing))
	for _, link := range existing {
		current[link.CategoryID] = true
		if !keep[link.CategoryID] {
			if err := uow.RemovePostCategory(ctx, postID, link.CategoryID); err != nil {
				return err
			}
		}
	}
	for _, id := range categoryIDs {
		if !current[id] {
			if err := uow.AddPostCategory(ctx, postID, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func orTitle(description, title string) string {
	if strings.TrimSpace(description) == "" {
		return title
	}
	return description
}
