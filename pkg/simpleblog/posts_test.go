package simpleblog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func TestCreatePostDraftByDefault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID,
		Title:     "Hello World",
		Content:   "some content",
	})
	require.NoError(t, err)

	assert.False(t, post.IsPublished())
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "some content", post.Description)
}

func TestCreatePostSharesNamespaceWithProfiles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// The profile claims "hello-world" in the shared URL namespace.
	profile := registerProfile(t, svc, "hw@idp", "Hello World")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID,
		Title:     "Hello World",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello-world2", post.Slug)
}

func TestCreatePostSlugCollisionProbes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	first, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)

	assert.Equal(t, "my-post", first.Slug)
	assert.Equal(t, "my-post2", second.Slug)
}

func TestSavePostKeepsSlugOnEdit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)

	// Re-saving under the same title must not trade my-post for my-post2;
	// the post's own slug is excluded from the collision check.
	saved, err := svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID:      post.ID,
		Title:   "My Post",
		Content: "updated content",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-post", saved.Slug)
	assert.Equal(t, "updated content", saved.Content)
}

func TestSavePostNeverUnpublishes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post", Publish: true})
	require.NoError(t, err)
	require.True(t, post.IsPublished())

	saved, err := svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID:      post.ID,
		Title:   "My Post",
		Publish: false,
	})
	require.NoError(t, err)
	assert.True(t, saved.IsPublished(), "saving without the publish flag must not unpublish")

	require.NoError(t, svc.UnpublishPost(ctx, post.ID))
	unpublished, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished())
}

func TestPublishNotificationFiresOnceOnEdge(t *testing.T) {
	notifier := &countingNotifier{}
	svc := newTestService(t, simpleblog.WithNotifier(notifier))
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	require.NoError(t, svc.Subscribe(ctx, "reader@example.com"))

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)
	assert.Equal(t, 0, notifier.count(), "drafts stay silent")

	// Draft to published: exactly one notification.
	_, err = svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID: post.ID, Title: "My Post", Publish: true})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())

	// Re-affirming publication stays silent.
	_, err = svc.SavePost(ctx, simpleblog.SavePostRequest{
		ID: post.ID, Title: "My Post", Publish: true})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())

	// The explicit publish operation always notifies.
	require.NoError(t, svc.PublishPost(ctx, post.ID))
	assert.Equal(t, 2, notifier.count())

	require.Len(t, notifier.calls, 2)
	assert.Equal(t, []string{"reader@example.com"}, notifier.calls[0].recipients)
}

func TestPublishOnCreateNotifies(t *testing.T) {
	notifier := &countingNotifier{}
	svc := newTestService(t, simpleblog.WithNotifier(notifier))
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	require.NoError(t, svc.Subscribe(ctx, "reader@example.com"))

	_, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post", Publish: true})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())
}

func TestFeaturePostRequiresAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	admin := registerProfile(t, svc, "admin@idp", "Admin Author")
	author := registerProfile(t, svc, "author@idp", "Plain Author")
	require.True(t, admin.IsAdmin)
	require.False(t, author.IsAdmin)

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: author.ID, Title: "My Post"})
	require.NoError(t, err)

	err = svc.FeaturePost(ctx, post.ID, true, author)
	assert.ErrorIs(t, err, simpleblog.ErrNotAuthorized)
	err = svc.FeaturePost(ctx, post.ID, true, nil)
	assert.ErrorIs(t, err, simpleblog.ErrNotAuthorized)

	require.NoError(t, svc.FeaturePost(ctx, post.ID, true, admin))
	featured, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)
}

func TestDescriptionDerivedFromContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	long := strings.Repeat("word ", 100) // 500 runes of text

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID,
		Title:     "Long One",
		Content:   long,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(post.Description, "..."))
	assert.LessOrEqual(t, len([]rune(post.Description)), 303)

	explicit, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID:   profile.ID,
		Title:       "Short One",
		Content:     long,
		Description: "hand-written summary",
	})
	require.NoError(t, err)
	assert.Equal(t, "hand-written summary", explicit.Description)
}

func TestAddPostView(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)

	require.NoError(t, svc.AddPostView(ctx, post.ID))
	require.NoError(t, svc.AddPostView(ctx, post.ID))

	viewed, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, viewed.PostViews)

	assert.ErrorIs(t, svc.AddPostView(ctx, 9999), simpleblog.ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	post, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "My Post"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, simpleblog.ErrPostNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), simpleblog.ErrPostNotFound)
}
