package simpleblog

import (
	"context"
	"errors"
	"strings"
	"time"
)

func (s *service) RegisterProfile(ctx context.Context, req RegisterProfileRequest) (*Profile, error) {
	identity := strings.TrimSpace(req.IdentityName)
	if identity == "" {
		return nil, &ValidationError{Field: "identity_name", Reason: "must not be empty"}
	}
	name := strings.TrimSpace(req.AuthorName)
	if name == "" {
		return nil, &ValidationError{Field: "author_name", Reason: "must not be empty"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	count, err := uow.CountProfiles(ctx)
	if err != nil {
		return nil, err
	}

	base := Slugify(name)
	if base == "" {
		return nil, &ValidationError{Field: "author_name", Reason: "yields an empty slug"}
	}
	slug, exhausted, err := ResolveSlug(ctx, base, uow.ProfileSlugTaken)
	if err != nil {
		return nil, err
	}
	if exhausted {
		s.logger.Warn("slug probe exhausted, falling back to base slug",
			"namespace", "profiles", "slug", base)
	}

	now := time.Now().UTC()
	profile := &Profile{
		Slug:         slug,
		IdentityName: identity,
		AuthorName:   name,
		AuthorEmail:  strings.TrimSpace(req.AuthorEmail),
		Title:        DefaultBlogTitle,
		Description:  DefaultDescription,
		// The very first profile in an empty system administers it.
		IsAdmin:     count == 0 || req.IsAdmin,
		BlogTheme:   DefaultTheme,
		LastUpdated: now,
	}

	if err := uow.CreateProfile(ctx, profile); err != nil {
		return nil, &ProfileError{Op: "register", Err: err}
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, &ProfileError{Op: "register", Err: err}
	}

	return profile, nil
}

func (s *service) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	profile, err := uow.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile, uow.Complete(ctx)
}

func (s *service) GetProfileBySlug(ctx context.Context, slug string) (*Profile, error) {
	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	profile, err := uow.GetProfileBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return profile, uow.Complete(ctx)
}

func (s *service) FindProfileByIdentity(ctx context.Context, identity string) (*Profile, bool, error) {
	if identity == "" {
		return nil, false, &ValidationError{Field: "identity", Reason: "must not be empty"}
	}

	if p, ok := s.profiles.get(identity); ok {
		return p, true, nil
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer uow.Rollback(ctx)

	profile, err := uow.GetProfileByIdentity(ctx, identity)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, false, uow.Complete(ctx)
	}
	if err != nil {
		return nil, false, err
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, false, err
	}

	s.profiles.put(identity, profile)
	return profile, true, nil
}

func (s *service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	if req.ProfileID < 1 {
		return nil, &ValidationError{Field: "profile_id", Reason: "must be positive"}
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	profile, err := uow.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	apply(&profile.AuthorName, req.AuthorName)
	apply(&profile.AuthorEmail, req.AuthorEmail)
	apply(&profile.Title, req.Title)
	apply(&profile.Description, req.Description)
	apply(&profile.BlogTheme, req.BlogTheme)
	apply(&profile.Avatar, req.Avatar)
	apply(&profile.Logo, req.Logo)
	apply(&profile.Cover, req.Cover)
	profile.LastUpdated = time.Now().UTC()

	if err := uow.UpdateProfile(ctx, profile); err != nil {
		return nil, &ProfileError{ProfileID: profile.ID, Op: "update", Err: err}
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, &ProfileError{ProfileID: profile.ID, Op: "update", Err: err}
	}

	s.profiles.invalidate(profile.IdentityName)
	return profile, nil
}

func (s *service) DeleteProfile(ctx context.Context, id int64) error {
	uow, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback(ctx)

	profile, err := uow.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if err := uow.DeleteProfile(ctx, id); err != nil {
		return &ProfileError{ProfileID: id, Op: "delete", Err: err}
	}
	if err := uow.Complete(ctx); err != nil {
		return &ProfileError{ProfileID: id, Op: "delete", Err: err}
	}

	s.profiles.invalidate(profile.IdentityName)
	return nil
}
