package simpleblog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrProfileNotFound indicates a profile was not found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrCategoryNotFound indicates a category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrFieldNotFound indicates a custom field record was not found.
	// Service-level reads translate it into an empty value; it only escapes
	// from the repository layer.
	ErrFieldNotFound = errors.New("custom field not found")

	// ErrSlugTaken indicates a slug uniqueness constraint was broken at
	// commit time. Two concurrent resolutions may probe the same suffix;
	// the caller retries, this library does not.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrDuplicateField indicates the (scope, owner, key) uniqueness
	// constraint of the attribute store was broken at commit time.
	ErrDuplicateField = errors.New("duplicate custom field")

	// ErrNotAuthorized indicates the caller lacks the admin privilege
	// required to feature or unfeature a post.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrObjectNotFound indicates a blob store object was not found
	ErrObjectNotFound = errors.New("object not found")
)

// ValidationError reports malformed caller-supplied input, rejected before
// any storage operation runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PostError represents an error related to post operations
type PostError struct {
	PostID int64
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %d: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// ProfileError represents an error related to profile operations
type ProfileError struct {
	ProfileID int64
	Op        string
	Err       error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile operation %s failed for profile %d: %v", e.Op, e.ProfileID, e.Err)
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}
