package simpleblog

import (
	"context"
	"io"
)

// Repository defines predicate-query and CRUD operations over the five
// persisted collections: profiles, posts, categories, post-category links,
// and custom fields. Implementations assign IDs on create.
type Repository interface {
	// Profile operations
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (*Profile, error)
	GetProfileByIdentity(ctx context.Context, identity string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
	// DeleteProfile cascades to the profile's posts, post-category links,
	// categories, and custom fields.
	DeleteProfile(ctx context.Context, id int64) error
	CountProfiles(ctx context.Context) (int, error)
	ProfileSlugTaken(ctx context.Context, slug string) (bool, error)

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id int64) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id int64) error
	// PostSlugTaken checks the combined post and profile namespace; posts
	// and profile pages share one flat URL path. excludePostID skips a
	// post's own row so that editing keeps its slug stable.
	PostSlugTaken(ctx context.Context, slug string, excludePostID int64) (bool, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int, error)
	// SearchPosts matches term against title and content, scoped to
	// profileID when non-zero. Returns one window plus the pre-window total.
	SearchPosts(ctx context.Context, term string, profileID int64, limit, offset int) ([]*Post, int, error)
	IncrementPostViews(ctx context.Context, id int64) error

	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	GetCategoryByTitle(ctx context.Context, profileID int64, title string) (*Category, error)
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, profileID int64) ([]*Category, error)
	CategoriesForPost(ctx context.Context, postID int64) ([]CategoryRef, error)
	ListPostCategories(ctx context.Context, postID int64) ([]*PostCategory, error)
	AddPostCategory(ctx context.Context, postID, categoryID int64) error
	RemovePostCategory(ctx context.Context, postID, categoryID int64) error
	CategoryStats(ctx context.Context, categoryID int64) (CategoryStats, error)

	// Custom field operations
	GetCustomField(ctx context.Context, scope FieldScope, ownerID int64, key string) (*CustomField, error)
	CreateCustomField(ctx context.Context, field *CustomField) error
	UpdateCustomField(ctx context.Context, field *CustomField) error
	ListCustomFields(ctx context.Context, scope FieldScope, ownerID int64) ([]*CustomField, error)
}

// UnitOfWork is one transactional batch of staged repository writes. Within
// one unit of work, writes are visible to subsequent reads in program order.
// Nothing is durable until Complete; Rollback after Complete is a no-op.
type UnitOfWork interface {
	Repository
	Complete(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens units of work against the shared persistence resource.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Searcher is the external full-text search boundary. The engine passes the
// result through unmodified; the implementation applies the same pager
// contract (Configure with the pre-window total) and owner scoping itself.
type Searcher interface {
	Find(ctx context.Context, pager *Pager, term string, profileSlug string) ([]*Post, error)
}

// Notifier is the notification boundary fired on publish transitions.
// Sends are best-effort: the engine logs and swallows failures.
type Notifier interface {
	Notify(ctx context.Context, title, description string, recipients []string) error
}

// BlobStore is the storage boundary for uploaded assets (avatars, covers).
// Asset bytes live outside the five persisted collections; the engine and
// its adapters only hold object keys and URLs.
type BlobStore interface {
	Save(ctx context.Context, objectKey string, reader io.Reader) error
	Open(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectKey string) error
	URL(ctx context.Context, objectKey string) (string, error)
}
