package simpleblog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestAddOrGetCategoryScopedToProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := registerProfile(t, svc, "alice@idp", "Alice Author")
	bob := registerProfile(t, svc, "bob@idp", "Bob Blogger")

	created, err := svc.AddOrGetCategory(ctx, alice.ID, "Go")
	require.NoError(t, err)
	assert.Equal(t, "go", created.Slug)
	assert.Equal(t, alice.ID, created.ProfileID)

	// Same profile, same title (case-insensitive): same category.
	again, err := svc.AddOrGetCategory(ctx, alice.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	// Different profile: a separate category under the same title.
	other, err := svc.AddOrGetCategory(ctx, bob.ID, "Go")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
	assert.Equal(t, bob.ID, other.ProfileID)
}

func TestAssignCategoryIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)
	category, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)

	require.NoError(t, svc.AssignCategory(ctx, post.ID, category.ID))
	require.NoError(t, svc.AssignCategory(ctx, post.ID, category.ID))

	refs, err := svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, category.ID, refs[0].ID)

	// Unassigning an absent link is a no-op.
	require.NoError(t, svc.UnassignCategory(ctx, post.ID, category.ID))
	require.NoError(t, svc.UnassignCategory(ctx, post.ID, category.ID))

	refs, err = svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestAssignCategoryChecksExistence(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)
	category, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AssignCategory(ctx, 9999, category.ID), simpleblog.ErrPostNotFound)
	assert.ErrorIs(t, svc.AssignCategory(ctx, post.ID, 9999), simpleblog.ErrCategoryNotFound)
}

func TestReplacePostCategoriesDiffs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)

	golang, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)
	web, err := svc.AddOrGetCategory(ctx, profile.ID, "Web")
	require.NoError(t, err)
	db, err := svc.AddOrGetCategory(ctx, profile.ID, "Databases")
	require.NoError(t, err)

	require.NoError(t, svc.ReplacePostCategories(ctx, post.ID, []int64{golang.ID, web.ID}))

	refs, err := svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	// Replace with an overlapping set: Go survives, Web goes, Databases joins.
	require.NoError(t, svc.ReplacePostCategories(ctx, post.ID, []int64{golang.ID, db.ID}))

	refs, err = svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	ids := []int64{refs[0].ID, refs[1].ID}
	assert.ElementsMatch(t, []int64{golang.ID, db.ID}, ids)

	// Empty set clears everything.
	require.NoError(t, svc.ReplacePostCategories(ctx, post.ID, nil))
	refs, err = svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestSavePostReplacesCategoriesOnlyWhenGiven(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	golang, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID:   profile.ID,
		Title:       "My Post",
		CategoryIDs: []int64{golang.ID},
	})
	require.NoError(t, err)

	// Nil CategoryIDs leaves associations alone.
	_, err = svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID: post.ID, Title: "My Post"})
	require.NoError(t, err)

	refs, err := svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, refs, 1)

	// An explicit empty set clears them.
	_, err = svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID: post.ID, Title: "My Post", CategoryIDs: []int64{}})
	require.NoError(t, err)

	refs, err = svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestDeleteCategoryRemovesLinks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)
	category, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)
	require.NoError(t, svc.AssignCategory(ctx, post.ID, category.ID))

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))

	refs, err := svc.CategoriesForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)

	// The post itself survives.
	_, err = svc.GetPost(ctx, post.ID)
	assert.NoError(t, err)
}

func TestCategoryStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	category, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)

	first, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "First"})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "Second"})
	require.NoError(t, err)

	require.NoError(t, svc.AssignCategory(ctx, first.ID, category.ID))
	require.NoError(t, svc.AssignCategory(ctx, second.ID, category.ID))
	require.NoError(t, svc.AddPostView(ctx, first.ID))
	require.NoError(t, svc.AddPostView(ctx, first.ID))
	require.NoError(t, svc.AddPostView(ctx, second.ID))

	stats, err := svc.CategoryStats(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PostCount)
	assert.Equal(t, 3, stats.ViewCount)

	_, err = svc.CategoryStats(ctx, 9999)
	assert.ErrorIs(t, err, simpleblog.ErrCategoryNotFound)
}

func TestSaveCategoryCreateAndRename(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	created, err := svc.SaveCategory(ctx, simpleblog.SaveCategoryRequest{
		ProfileID: profile.ID,
		Title:     "Go",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go", created.Description, "description defaults to the title")

	renamed, err := svc.SaveCategory(ctx, simpleblog.SaveCategoryRequest{
		ID:          created.ID,
		Title:       "Golang",
		Description: "posts about Go",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "Golang", renamed.Title)
	assert.Equal(t, "posts about Go", renamed.Description)
}
