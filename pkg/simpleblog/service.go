package simpleblog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service is the content & metadata engine: slug assignment, the typed
// attribute store, the post lifecycle, category associations, and the
// content query engine, behind one interface consumed identically by admin
// and public adapters. The caller supplies an already-authenticated
// identity; authorization stays outside except for the single featured-post
// admin check.
type Service interface {
	// Profile operations
	RegisterProfile(ctx context.Context, req RegisterProfileRequest) (*Profile, error)
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (*Profile, error)
	// FindProfileByIdentity matches an opaque identity string to a profile.
	// A missing profile is an expected outcome, reported as ok=false rather
	// than an error.
	FindProfileByIdentity(ctx context.Context, identity string) (*Profile, bool, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	DeleteProfile(ctx context.Context, id int64) error

	// Post lifecycle
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	SavePost(ctx context.Context, req SavePostRequest) (*Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	PublishPost(ctx context.Context, id int64) error
	UnpublishPost(ctx context.Context, id int64) error
	FeaturePost(ctx context.Context, id int64, featured bool, actor *Profile) error
	DeletePost(ctx context.Context, id int64) error
	AddPostView(ctx context.Context, id int64) error

	// Content query engine
	ListPosts(ctx context.Context, req ListPostsRequest) (*PostPage, error)

	// Category management
	ListCategories(ctx context.Context, profileID int64) ([]*Category, error)
	CategoriesForPost(ctx context.Context, postID int64) ([]CategoryRef, error)
	AddOrGetCategory(ctx context.Context, profileID int64, title string) (*Category, error)
	SaveCategory(ctx context.Context, req SaveCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	AssignCategory(ctx context.Context, postID, categoryID int64) error
	UnassignCategory(ctx context.Context, postID, categoryID int64) error
	ReplacePostCategories(ctx context.Context, postID int64, categoryIDs []int64) error
	CategoryStats(ctx context.Context, categoryID int64) (CategoryStats, error)

	// Attribute store
	GetField(ctx context.Context, scope FieldScope, ownerID int64, key string) (string, error)
	SetField(ctx context.Context, scope FieldScope, ownerID int64, key, value string) error
	GetFields(ctx context.Context, scope FieldScope, ownerID int64) (map[string]string, error)
	GetIntField(ctx context.Context, scope FieldScope, ownerID int64, key string, fallback int) (int, error)
	GetBoolField(ctx context.Context, scope FieldScope, ownerID int64, key string, fallback bool) (bool, error)

	// Newsletter subscriber list, kept in the application-scope NEWSLETTER
	// field as a comma-separated value.
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
	Subscribers(ctx context.Context) ([]string, error)

	// Settings snapshot
	Settings() BlogSettings
	ReloadSettings(ctx context.Context) error
}

// service implements the Service interface
type service struct {
	store    Store
	searcher Searcher
	notifier Notifier
	logger   *slog.Logger

	profiles *profileCache
	settings settingsHolder
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the persistence store for the service
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithSearcher sets the full-text search boundary. When omitted the service
// falls back to RepositorySearcher over its own store.
func WithSearcher(searcher Searcher) Option {
	return func(s *service) {
		s.searcher = searcher
	}
}

// WithNotifier sets the publish notification boundary.
func WithNotifier(notifier Notifier) Option {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithLogger sets the logger used for degraded-mode slug fallbacks and
// swallowed notifier failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithProfileCacheTTL enables the read-through identity cache. The cache is
// not authoritative: entries expire after ttl and are invalidated on profile
// update and delete.
func WithProfileCacheTTL(ttl time.Duration) Option {
	return func(s *service) {
		s.profiles = newProfileCache(ttl)
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s.searcher == nil {
		s.searcher = NewRepositorySearcher(s.store)
	}
	if s.notifier == nil {
		s.notifier = NewNoopNotifier()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.settings.init()

	return s, nil
}

// begin opens a unit of work; every service operation stages its writes in
// one and commits them with a single Complete call.
func (s *service) begin(ctx context.Context) (UnitOfWork, error) {
	return s.store.Begin(ctx)
}
