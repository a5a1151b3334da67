package simpleblog

// RegisterProfileRequest contains parameters for creating a profile. The
// identity name is the already-authenticated principal's opaque identity;
// this library never authenticates.
type RegisterProfileRequest struct {
	IdentityName string
	AuthorName   string
	AuthorEmail  string
	// IsAdmin grants admin rights explicitly. The very first profile in an
	// empty system is granted admin rights regardless.
	IsAdmin bool
}

// UpdateProfileRequest contains the mutable profile settings. Zero-value
// strings leave the stored value unchanged.
type UpdateProfileRequest struct {
	ProfileID   int64
	AuthorName  string
	AuthorEmail string
	Title       string
	Description string
	BlogTheme   string
	Avatar      string
	Logo        string
	Cover       string
}

// CreatePostRequest contains parameters for creating a post. When Publish is
// set the post transitions straight to Published and is timestamped at the
// moment of creation.
type CreatePostRequest struct {
	ProfileID   int64
	Title       string
	Content     string
	Description string
	Cover       string
	// Slug overrides the title-derived slug candidate; it still goes
	// through collision resolution.
	Slug        string
	Publish     bool
	CategoryIDs []int64
}

// SavePostRequest contains parameters for editing an existing post. Content
// fields are always overwritten. Publish=true publishes a draft (firing the
// notification hook once) or re-affirms an already-published post;
// Publish=false never unpublishes.
type SavePostRequest struct {
	ID          int64
	Title       string
	Content     string
	Description string
	Cover       string
	Slug        string
	Publish     bool
	// CategoryIDs, when non-nil, replaces the post's category set.
	CategoryIDs []int64
}

// SaveCategoryRequest creates a category when ID is zero and updates the
// title/description otherwise.
type SaveCategoryRequest struct {
	ID          int64
	ProfileID   int64
	Title       string
	Description string
}

// ListPostsRequest drives the content query engine. A non-empty SearchTerm
// delegates to the Searcher boundary and supersedes the structural filters.
type ListPostsRequest struct {
	Status      PostStatus
	CategoryIDs []int64
	// ProfileSlug scopes the listing to one owner; empty means all owners.
	ProfileSlug string
	Pager       *Pager
	SearchTerm  string
}
