// Package memory implements the simpleblog.Store boundary with in-memory
// maps, primarily for tests and zero-dependency deployments. Writes apply
// immediately under the store lock: Complete is a fence and Rollback is a
// no-op, so the unit-of-work contract holds for read-your-own-writes but
// not for discard-on-failure.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// Store is an in-memory implementation of simpleblog.Store.
type Store struct {
	mu         sync.RWMutex
	profiles   map[int64]*simpleblog.Profile
	posts      map[int64]*simpleblog.Post
	categories map[int64]*simpleblog.Category
	links      map[int64]*simpleblog.PostCategory
	fields     map[int64]*simpleblog.CustomField
	lastID     int64
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		profiles:   make(map[int64]*simpleblog.Profile),
		posts:      make(map[int64]*simpleblog.Post),
		categories: make(map[int64]*simpleblog.Category),
		links:      make(map[int64]*simpleblog.PostCategory),
		fields:     make(map[int64]*simpleblog.CustomField),
	}
}

// Begin opens a unit of work over the shared maps.
func (s *Store) Begin(ctx context.Context) (simpleblog.UnitOfWork, error) {
	return &unitOfWork{store: s}, nil
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

type unitOfWork struct {
	store *Store
}

// Complete is a fence only; writes are already visible.
func (u *unitOfWork) Complete(ctx context.Context) error { return nil }

// Rollback is a no-op; the memory store cannot discard applied writes.
func (u *unitOfWork) Rollback(ctx context.Context) error { return nil }

// Profile operations

func (u *unitOfWork) CreateProfile(ctx context.Context, profile *simpleblog.Profile) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profiles {
		if existing.Slug == profile.Slug {
			return simpleblog.ErrSlugTaken
		}
	}
	profile.ID = s.nextID()
	profileCopy := *profile
	s.profiles[profile.ID] = &profileCopy
	return nil
}

func (u *unitOfWork) GetProfile(ctx context.Context, id int64) (*simpleblog.Profile, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, simpleblog.ErrProfileNotFound
	}
	profileCopy := *profile
	return &profileCopy, nil
}

func (u *unitOfWork) GetProfileBySlug(ctx context.Context, slug string) (*simpleblog.Profile, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, profile := range s.profiles {
		if profile.Slug == slug {
			profileCopy := *profile
			return &profileCopy, nil
		}
	}
	return nil, simpleblog.ErrProfileNotFound
}

func (u *unitOfWork) GetProfileByIdentity(ctx context.Context, identity string) (*simpleblog.Profile, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, profile := range s.profiles {
		if profile.IdentityName == identity {
			profileCopy := *profile
			return &profileCopy, nil
		}
	}
	return nil, simpleblog.ErrProfileNotFound
}

func (u *unitOfWork) UpdateProfile(ctx context.Context, profile *simpleblog.Profile) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; !ok {
		return simpleblog.ErrProfileNotFound
	}
	for _, existing := range s.profiles {
		if existing.ID != profile.ID && existing.Slug == profile.Slug {
			return simpleblog.ErrSlugTaken
		}
	}
	profileCopy := *profile
	s.profiles[profile.ID] = &profileCopy
	return nil
}

func (u *unitOfWork) DeleteProfile(ctx context.Context, id int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return simpleblog.ErrProfileNotFound
	}
	for postID, post := range s.posts {
		if post.ProfileID == id {
			s.deletePostLocked(postID)
		}
	}
	for categoryID, category := range s.categories {
		if category.ProfileID == id {
			s.deleteCategoryLocked(categoryID)
		}
	}
	for fieldID, field := range s.fields {
		if field.Scope == simpleblog.ScopeProfile && field.OwnerID == id {
			delete(s.fields, fieldID)
		}
	}
	delete(s.profiles, id)
	return nil
}

func (u *unitOfWork) CountProfiles(ctx context.Context) (int, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

func (u *unitOfWork) ProfileSlugTaken(ctx context.Context, slug string) (bool, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, profile := range s.profiles {
		if profile.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// Post operations

func (u *unitOfWork) CreatePost(ctx context.Context, post *simpleblog.Post) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postSlugTakenLocked(post.Slug, 0) {
		return simpleblog.ErrSlugTaken
	}
	post.ID = s.nextID()
	postCopy := *post
	s.posts[post.ID] = &postCopy
	return nil
}

func (u *unitOfWork) GetPost(ctx context.Context, id int64) (*simpleblog.Post, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, simpleblog.ErrPostNotFound
	}
	postCopy := *post
	return &postCopy, nil
}

func (u *unitOfWork) GetPostBySlug(ctx context.Context, slug string) (*simpleblog.Post, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, post := range s.posts {
		if post.Slug == slug {
			postCopy := *post
			return &postCopy, nil
		}
	}
	return nil, simpleblog.ErrPostNotFound
}

func (u *unitOfWork) UpdatePost(ctx context.Context, post *simpleblog.Post) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return simpleblog.ErrPostNotFound
	}
	if s.postSlugTakenLocked(post.Slug, post.ID) {
		return simpleblog.ErrSlugTaken
	}
	postCopy := *post
	s.posts[post.ID] = &postCopy
	return nil
}

func (u *unitOfWork) DeletePost(ctx context.Context, id int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return simpleblog.ErrPostNotFound
	}
	s.deletePostLocked(id)
	return nil
}

func (u *unitOfWork) PostSlugTaken(ctx context.Context, slug string, excludePostID int64) (bool, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.postSlugTakenLocked(slug, excludePostID), nil
}

func (u *unitOfWork) ListPosts(ctx context.Context, filter simpleblog.PostFilter) ([]*simpleblog.Post, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchPostsLocked(filter)
	return window(matched, filter.Offset, filter.Limit), nil
}

func (u *unitOfWork) CountPosts(ctx context.Context, filter simpleblog.PostFilter) (int, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter.Limit = 0
	filter.Offset = 0
	return len(s.matchPostsLocked(filter)), nil
}

func (u *unitOfWork) SearchPosts(ctx context.Context, term string, profileID int64, limit, offset int) ([]*simpleblog.Post, int, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	var matched []*simpleblog.Post
	for _, post := range s.posts {
		if profileID != 0 && post.ProfileID != profileID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(post.Title), needle) &&
			!strings.Contains(strings.ToLower(post.Content), needle) {
			continue
		}
		postCopy := *post
		matched = append(matched, &postCopy)
	}
	sortPosts(matched)
	return window(matched, offset, limit), len(matched), nil
}

func (u *unitOfWork) IncrementPostViews(ctx context.Context, id int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return simpleblog.ErrPostNotFound
	}
	post.PostViews++
	return nil
}

// Category operations

func (u *unitOfWork) CreateCategory(ctx context.Context, category *simpleblog.Category) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.nextID()
	categoryCopy := *category
	s.categories[category.ID] = &categoryCopy
	return nil
}

func (u *unitOfWork) GetCategory(ctx context.Context, id int64) (*simpleblog.Category, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, simpleblog.ErrCategoryNotFound
	}
	categoryCopy := *category
	return &categoryCopy, nil
}

func (u *unitOfWork) GetCategoryByTitle(ctx context.Context, profileID int64, title string) (*simpleblog.Category, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range s.categories {
		if category.ProfileID == profileID && strings.EqualFold(category.Title, title) {
			categoryCopy := *category
			return &categoryCopy, nil
		}
	}
	return nil, simpleblog.ErrCategoryNotFound
}

func (u *unitOfWork) UpdateCategory(ctx context.Context, category *simpleblog.Category) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return simpleblog.ErrCategoryNotFound
	}
	categoryCopy := *category
	s.categories[category.ID] = &categoryCopy
	return nil
}

func (u *unitOfWork) DeleteCategory(ctx context.Context, id int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return simpleblog.ErrCategoryNotFound
	}
	s.deleteCategoryLocked(id)
	return nil
}

func (u *unitOfWork) ListCategories(ctx context.Context, profileID int64) ([]*simpleblog.Category, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*simpleblog.Category
	for _, category := range s.categories {
		if profileID == 0 || category.ProfileID == profileID {
			categoryCopy := *category
			result = append(result, &categoryCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := strings.ToLower(result[i].Title), strings.ToLower(result[j].Title)
		if ti != tj {
			return ti < tj
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (u *unitOfWork) CategoriesForPost(ctx context.Context, postID int64) ([]simpleblog.CategoryRef, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]bool)
	var refs []simpleblog.CategoryRef
	for _, link := range s.links {
		if link.PostID != postID || seen[link.CategoryID] {
			continue
		}
		category, ok := s.categories[link.CategoryID]
		if !ok {
			continue
		}
		seen[link.CategoryID] = true
		refs = append(refs, simpleblog.CategoryRef{ID: category.ID, Title: category.Title})
	}
	sort.Slice(refs, func(i, j int) bool {
		ti, tj := strings.ToLower(refs[i].Title), strings.ToLower(refs[j].Title)
		if ti != tj {
			return ti < tj
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

func (u *unitOfWork) ListPostCategories(ctx context.Context, postID int64) ([]*simpleblog.PostCategory, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*simpleblog.PostCategory
	for _, link := range s.links {
		if link.PostID == postID {
			linkCopy := *link
			result = append(result, &linkCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (u *unitOfWork) AddPostCategory(ctx context.Context, postID, categoryID int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.links {
		if link.PostID == postID && link.CategoryID == categoryID {
			return nil
		}
	}
	id := s.nextID()
	s.links[id] = &simpleblog.PostCategory{
		ID:          id,
		PostID:      postID,
		CategoryID:  categoryID,
		LastUpdated: time.Now().UTC(),
	}
	return nil
}

func (u *unitOfWork) RemovePostCategory(ctx context.Context, postID, categoryID int64) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, link := range s.links {
		if link.PostID == postID && link.CategoryID == categoryID {
			delete(s.links, id)
			return nil
		}
	}
	return nil
}

func (u *unitOfWork) CategoryStats(ctx context.Context, categoryID int64) (simpleblog.CategoryStats, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := simpleblog.CategoryStats{CategoryID: categoryID}
	for _, link := range s.links {
		if link.CategoryID != categoryID {
			continue
		}
		post, ok := s.posts[link.PostID]
		if !ok {
			continue
		}
		stats.PostCount++
		stats.ViewCount += post.PostViews
	}
	return stats, nil
}

// Custom field operations

func (u *unitOfWork) GetCustomField(ctx context.Context, scope simpleblog.FieldScope, ownerID int64, key string) (*simpleblog.CustomField, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, field := range s.fields {
		if field.Scope == scope && field.OwnerID == ownerID && field.Key == key {
			fieldCopy := *field
			return &fieldCopy, nil
		}
	}
	return nil, simpleblog.ErrFieldNotFound
}

func (u *unitOfWork) CreateCustomField(ctx context.Context, field *simpleblog.CustomField) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.fields {
		if existing.Scope == field.Scope && existing.OwnerID == field.OwnerID && existing.Key == field.Key {
			return simpleblog.ErrDuplicateField
		}
	}
	field.ID = s.nextID()
	fieldCopy := *field
	s.fields[field.ID] = &fieldCopy
	return nil
}

func (u *unitOfWork) UpdateCustomField(ctx context.Context, field *simpleblog.CustomField) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.fields[field.ID]; !ok {
		return simpleblog.ErrFieldNotFound
	}
	fieldCopy := *field
	s.fields[field.ID] = &fieldCopy
	return nil
}

func (u *unitOfWork) ListCustomFields(ctx context.Context, scope simpleblog.FieldScope, ownerID int64) ([]*simpleblog.CustomField, error) {
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*simpleblog.CustomField
	for _, field := range s.fields {
		if field.Scope == scope && field.OwnerID == ownerID {
			fieldCopy := *field
			result = append(result, &fieldCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := strings.ToLower(result[i].Title), strings.ToLower(result[j].Title)
		if ti != tj {
			return ti < tj
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Internal helpers; callers hold the store lock.

func (s *Store) postSlugTakenLocked(slug string, excludePostID int64) bool {
	// Posts and profile pages share one flat URL namespace.
	for _, post := range s.posts {
		if post.ID != excludePostID && post.Slug == slug {
			return true
		}
	}
	for _, profile := range s.profiles {
		if profile.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) deletePostLocked(id int64) {
	for linkID, link := range s.links {
		if link.PostID == id {
			delete(s.links, linkID)
		}
	}
	delete(s.posts, id)
}

func (s *Store) deleteCategoryLocked(id int64) {
	for linkID, link := range s.links {
		if link.CategoryID == id {
			delete(s.links, linkID)
		}
	}
	delete(s.categories, id)
}

func (s *Store) matchPostsLocked(filter simpleblog.PostFilter) []*simpleblog.Post {
	var linked map[int64]bool
	if len(filter.CategoryIDs) > 0 {
		linked = make(map[int64]bool)
		wanted := make(map[int64]bool, len(filter.CategoryIDs))
		for _, id := range filter.CategoryIDs {
			wanted[id] = true
		}
		for _, link := range s.links {
			if wanted[link.CategoryID] {
				linked[link.PostID] = true
			}
		}
	}

	var matched []*simpleblog.Post
	for _, post := range s.posts {
		if filter.ProfileID != 0 && post.ProfileID != filter.ProfileID {
			continue
		}
		switch filter.Status {
		case simpleblog.StatusDraft:
			if post.IsPublished() {
				continue
			}
		case simpleblog.StatusPublished:
			if !post.IsPublished() {
				continue
			}
		}
		if linked != nil && !linked[post.ID] {
			continue
		}
		postCopy := *post
		matched = append(matched, &postCopy)
	}
	sortPosts(matched)
	return matched
}

// sortPosts orders by publish time falling back to last update, newest
// first, with the id as a deterministic tie-breaker.
func sortPosts(posts []*simpleblog.Post) {
	recency := func(p *simpleblog.Post) time.Time {
		if p.IsPublished() {
			return p.Published
		}
		return p.LastUpdated
	}
	sort.Slice(posts, func(i, j int) bool {
		ri, rj := recency(posts[i]), recency(posts[j])
		if !ri.Equal(rj) {
			return ri.After(rj)
		}
		return posts[i].ID > posts[j].ID
	})
}

func window(posts []*simpleblog.Post, offset, limit int) []*simpleblog.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}
