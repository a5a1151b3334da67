package simpleblog

import "time"

// FieldScope partitions custom fields between application-wide settings and
// per-profile settings.
type FieldScope string

// Field scope constants (typed).
const (
	ScopeApplication FieldScope = "application"
	ScopeProfile     FieldScope = "profile"
)

// PostStatus selects a lifecycle state in listing filters.
type PostStatus string

// Post status filter constants.
const (
	StatusAll       PostStatus = "A"
	StatusDraft     PostStatus = "D"
	StatusPublished PostStatus = "P"
)

// Well-known custom field keys. The attribute store itself is schema-free;
// these are the keys the engine and its adapters agree on.
const (
	FieldNewsletter   = "NEWSLETTER"
	FieldBlogTitle    = "blogTitle"
	FieldBlogTheme    = "blogTheme"
	FieldItemsPerPage = "itemsPerPage"
	FieldPostListSize = "postListSize"
	FieldHeadCode     = "headCode"
	FieldFooterCode   = "footerCode"
)

// Defaults applied when a profile or the application has not configured a
// value yet.
const (
	DefaultPageSize    = 10
	DefaultTheme       = "standard"
	DefaultBlogTitle   = "New blog"
	DefaultDescription = "New blog description"
)

// Profile is one author/tenant and its public blog identity. Slug is globally
// unique across all profiles and doubles as the profile's URL segment.
type Profile struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	IdentityName string    `json:"identity_name"`
	AuthorName   string    `json:"author_name"`
	AuthorEmail  string    `json:"author_email,omitempty"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	BlogTheme    string    `json:"blog_theme,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Logo         string    `json:"logo,omitempty"`
	Cover        string    `json:"cover,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Post belongs to exactly one profile. A zero Published time is the draft
// sentinel; posts and profiles share one flat slug namespace because both are
// served from the same URL path.
type Post struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	Published   time.Time `json:"published,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	PostViews   int       `json:"post_views"`
	LastUpdated time.Time `json:"last_updated"`
}

// IsPublished reports whether the post has left the draft state.
func (p *Post) IsPublished() bool {
	return !p.Published.IsZero()
}

// Category belongs to one profile and relates to posts through PostCategory.
type Category struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	LastUpdated time.Time `json:"last_updated"`
}

// PostCategory links one post and one category. At most one link exists per
// (post, category) pair.
type PostCategory struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"post_id"`
	CategoryID  int64     `json:"category_id"`
	LastUpdated time.Time `json:"last_updated"`
}

// CustomField is one generic attribute record. (Scope, OwnerID, Key) is
// unique; OwnerID is 0 for application scope. An absent key reads as an empty
// value, never as an error.
type CustomField struct {
	ID          int64      `json:"id"`
	Scope       FieldScope `json:"scope"`
	OwnerID     int64      `json:"owner_id"`
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Title       string     `json:"title"`
	LastUpdated time.Time  `json:"last_updated"`
}

// CategoryRef is the (id, title) projection used when listing the categories
// attached to a post.
type CategoryRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CategoryStats aggregates post count and view sum across every post
// associated with a category, used for display ranking.
type CategoryStats struct {
	CategoryID int64 `json:"category_id"`
	PostCount  int   `json:"post_count"`
	ViewCount  int   `json:"view_count"`
}

// PostFilter is the predicate set the repository applies when listing or
// counting posts. CategoryIDs use OR semantics: a post matches when it is
// linked to any of the given categories.
type PostFilter struct {
	ProfileID   int64
	Status      PostStatus
	CategoryIDs []int64
	Limit       int
	Offset      int
}

// PostPage is one window of posts together with the pager that produced it.
type PostPage struct {
	Posts []*Post `json:"posts"`
	Pager *Pager  `json:"pager"`
}
