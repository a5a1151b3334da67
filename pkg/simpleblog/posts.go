package simpleblog

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// descriptionLength caps the short description derived from post content
// when the caller leaves it empty.
const descriptionLength = 300

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.ProfileID < 1 {
		return nil, &ValidationError{Field: "profile_id", Reason: "must be positive"}
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetProfile(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	slug, err := s.resolvePostSlug(ctx, uow, req.Slug, title, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &Post{
		ProfileID:   req.ProfileID,
		Slug:        slug,
		Title:       title,
		Content:     req.Content,
		Description: orDerived(req.Description, req.Content),
		Cover:       req.Cover,
		LastUpdated: now,
	}
	if req.Publish {
		post.Published = now
	}

	if err := uow.CreatePost(ctx, post); err != nil {
		return nil, &PostError{Op: "create", Err: err}
	}
	for _, categoryID := range req.CategoryIDs {
		if err := uow.AddPostCategory(ctx, post.ID, categoryID); err != nil {
			return nil, &PostError{PostID: post.ID, Op: "create", Err: err}
		}
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, &PostError{Op: "create", Err: err}
	}

	if req.Publish {
		s.notifyPublished(ctx, post)
	}
	return post, nil
}

func (s *service) SavePost(ctx context.Context, req SavePostRequest) (*Post, error) {
	if req.ID < 1 {
		return nil, &ValidationError{Field: "id", Reason: "must be positive"}
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	wasDraft := !post.IsPublished()

	slug, err := s.resolvePostSlug(ctx, uow, req.Slug, title, post.ID)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Slug = slug
	post.Content = req.Content
	post.Description = orDerived(req.Description, req.Content)
	post.Cover = req.Cover
	post.LastUpdated = time.Now().UTC()

	// Saving with the publish flag publishes a draft or refreshes an
	// already-published timestamp. It never unpublishes; that requires the
	// explicit UnpublishPost operation.
	if req.Publish {
		post.Published = post.LastUpdated
	}

	if err := uow.UpdatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "save", Err: err}
	}
	if req.CategoryIDs != nil {
		if err := replaceAssociations(ctx, uow, post.ID, req.CategoryIDs); err != nil {
			return nil, &PostError{PostID: post.ID, Op: "save", Err: err}
		}
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "save", Err: err}
	}

	// The notification hook fires exactly once, on the draft-to-published
	// edge; re-affirming publication stays silent.
	if req.Publish && wasDraft {
		s.notifyPublished(ctx, post)
	}
	return post, nil
}

func (s *service) GetPost(ctx context.Context, id int64) (*Post, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return post, uow.Complete(ctx)
}

func (s *service) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return post, uow.Complete(ctx)
}

func (s *service) PublishPost(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPost(ctx, id)
	if err != nil {
		return err
	}
	post.Published = time.Now().UTC()
	if err := uow.UpdatePost(ctx, post); err != nil {
		return &PostError{PostID: id, Op: "publish", Err: err}
	}
	if err := uow.Complete(ctx); err != nil {
		return &PostError{PostID: id, Op: "publish", Err: err}
	}

	// Unlike SavePost, the explicit publish operation always notifies.
	s.notifyPublished(ctx, post)
	return nil
}

func (s *service) UnpublishPost(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPost(ctx, id)
	if err != nil {
		return err
	}
	post.Published = time.Time{}
	if err := uow.UpdatePost(ctx, post); err != nil {
		return &PostError{PostID: id, Op: "unpublish", Err: err}
	}
	return uow.Complete(ctx)
}

func (s *service) FeaturePost(ctx context.Context, id int64, featured bool, actor *Profile) error {
	// Featured posts surface on cross-tenant public listings; this is the
	// one operation with a built-in authorization check.
	if actor == nil || !actor.IsAdmin {
		return ErrNotAuthorized
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	post, err := uow.GetPost(ctx, id)
	if err != nil {
		return err
	}
	post.IsFeatured = featured
	post.LastUpdated = time.Now().UTC()
	if err := uow.UpdatePost(ctx, post); err != nil {
		return &PostError{PostID: id, Op: "feature", Err: err}
	}
	return uow.Complete(ctx)
}

func (s *service) DeletePost(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if _, err := uow.GetPost(ctx, id); err != nil {
		return err
	}
	if err := uow.DeletePost(ctx, id); err != nil {
		return &PostError{PostID: id, Op: "delete", Err: err}
	}
	return uow.Complete(ctx)
}

func (s *service) AddPostView(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	if err := uow.IncrementPostViews(ctx, id); err != nil {
		return err
	}
	return uow.Complete(ctx)
}

// resolvePostSlug derives the slug candidate from the explicit override or
// the title and resolves it against the combined post+profile namespace.
func (s *service) resolvePostSlug(ctx context.Context, uow UnitOfWork, override, title string, excludePostID int64) (string, error) {
	base := Slugify(override)
	if base == "" {
		base = Slugify(title)
	}
	if base == "" {
		return "", &ValidationError{Field: "title", Reason: "yields an empty slug"}
	}
	taken := func(ctx context.Context, candidate string) (bool, error) {
		return uow.PostSlugTaken(ctx, candidate, excludePostID)
	}
	slug, exhausted, err := ResolveSlug(ctx, base, taken)
	if err != nil {
		return "", err
	}
	if exhausted {
		s.logger.Warn("slug probe exhausted, falling back to base slug",
			"namespace", "posts", "slug", base)
	}
	return slug, nil
}

// notifyPublished fires the notification boundary after a successful publish
// commit. Sends are best-effort: failures are logged, never propagated.
func (s *service) notifyPublished(ctx context.Context, post *Post) {
	recipients, err := s.Subscribers(ctx)
	if err != nil {
		s.logger.Warn("loading newsletter recipients failed", "error", err)
		return
	}
	if len(recipients) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, post.Title, post.Description, recipients); err != nil {
		s.logger.Warn("publish notification failed", "post", post.ID, "error", err)
	}
}

// orDerived returns description, or a plain-text prefix of content when the
// description is empty.
func orDerived(description, content string) string {
	description = strings.TrimSpace(description)
	if description != "" {
		return description
	}
	text := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(text) <= descriptionLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:descriptionLength])) + "..."
}
