package simpleblog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

func seedPosts(t *testing.T, svc simpleblog.Service, profileID int64, n int, publish bool) []*simpleblog.Post {
	t.Helper()
	posts := make([]*simpleblog.Post, 0, n)
	for i := 0; i < n; i++ {
		post, err := svc.CreatePost(context.Background(), simpleblog.CreatePostRequest{
			ProfileID: profileID,
			Title:     fmt.Sprintf("Post %03d", i),
			Content:   "content",
			Publish:   publish,
		})
		require.NoError(t, err)
		posts = append(posts, post)
	}
	return posts
}

func TestListPostsPaginationWindows(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	seedPosts(t, svc, profile.ID, 25, true)

	page1, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status: simpleblog.StatusAll,
		Pager:  simpleblog.NewPager(1, 10),
	})
	require.NoError(t, err)
	page2, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status: simpleblog.StatusAll,
		Pager:  simpleblog.NewPager(2, 10),
	})
	require.NoError(t, err)
	page3, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status: simpleblog.StatusAll,
		Pager:  simpleblog.NewPager(3, 10),
	})
	require.NoError(t, err)

	assert.Len(t, page1.Posts, 10)
	assert.Len(t, page2.Posts, 10)
	assert.Len(t, page3.Posts, 5)
	assert.Equal(t, 25, page1.Pager.Total)
	assert.Equal(t, 3, page1.Pager.TotalPages)

	// Windows are disjoint.
	seen := make(map[int64]bool)
	for _, page := range []*simpleblog.PostPage{page1, page2, page3} {
		for _, post := range page.Posts {
			assert.False(t, seen[post.ID], "post %d appears in two windows", post.ID)
			seen[post.ID] = true
		}
	}
	assert.Len(t, seen, 25)

	// A window past the data is empty but still reports the page count.
	page9, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status: simpleblog.StatusAll,
		Pager:  simpleblog.NewPager(9, 10),
	})
	require.NoError(t, err)
	assert.Empty(t, page9.Posts)
	assert.Equal(t, 3, page9.Pager.TotalPages)
}

func TestListPostsStatusFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	seedPosts(t, svc, profile.ID, 3, true)
	seedPosts(t, svc, profile.ID, 2, false)

	published, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusPublished})
	require.NoError(t, err)
	drafts, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusDraft})
	require.NoError(t, err)
	all, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusAll})
	require.NoError(t, err)

	assert.Len(t, published.Posts, 3)
	assert.Len(t, drafts.Posts, 2)
	assert.Len(t, all.Posts, 5)
}

func TestListPostsProfileScope(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	alice := registerProfile(t, svc, "alice@idp", "Alice Author")
	bob := registerProfile(t, svc, "bob@idp", "Bob Blogger")
	seedPosts(t, svc, alice.ID, 3, true)
	seedPosts(t, svc, bob.ID, 2, true)

	scoped, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status:      simpleblog.StatusAll,
		ProfileSlug: alice.Slug,
	})
	require.NoError(t, err)
	assert.Len(t, scoped.Posts, 3)
	for _, post := range scoped.Posts {
		assert.Equal(t, alice.ID, post.ProfileID)
	}

	_, err = svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status:      simpleblog.StatusAll,
		ProfileSlug: "no-such-profile",
	})
	assert.ErrorIs(t, err, simpleblog.ErrProfileNotFound)
}

func TestListPostsCategoryFilterUsesOr(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	posts := seedPosts(t, svc, profile.ID, 4, true)
	golang, err := svc.AddOrGetCategory(ctx, profile.ID, "Go")
	require.NoError(t, err)
	web, err := svc.AddOrGetCategory(ctx, profile.ID, "Web")
	require.NoError(t, err)

	require.NoError(t, svc.AssignCategory(ctx, posts[0].ID, golang.ID))
	require.NoError(t, svc.AssignCategory(ctx, posts[1].ID, web.ID))
	// posts[2] carries both; posts[3] carries none.
	require.NoError(t, svc.AssignCategory(ctx, posts[2].ID, golang.ID))
	require.NoError(t, svc.AssignCategory(ctx, posts[2].ID, web.ID))

	result, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		Status:      simpleblog.StatusAll,
		CategoryIDs: []int64{golang.ID, web.ID},
	})
	require.NoError(t, err)

	// OR semantics: any linked post matches, and a post linked to both
	// appears once.
	assert.Len(t, result.Posts, 3)
	assert.Equal(t, 3, result.Pager.Total)
}

func TestListPostsSearchSupersedesFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")

	_, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "Kubernetes Deep Dive", Content: "pods and nodes", Publish: true})
	require.NoError(t, err)
	draft, err := svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "Kubernetes Drafts", Content: "unfinished"})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, simpleblog.CreatePostRequest{
		ProfileID: profile.ID, Title: "Unrelated", Content: "gardening", Publish: true})
	require.NoError(t, err)

	result, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{
		// The status filter is structural; the search term overrides it and
		// matches the draft too.
		Status:     simpleblog.StatusPublished,
		SearchTerm: "kubernetes",
	})
	require.NoError(t, err)

	require.Len(t, result.Posts, 2)
	ids := []int64{result.Posts[0].ID, result.Posts[1].ID}
	assert.Contains(t, ids, draft.ID)
	assert.Equal(t, 2, result.Pager.Total)
}

func TestListPostsDefaultPagerUsesSettings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")
	seedPosts(t, svc, profile.ID, 15, true)

	result, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusAll})
	require.NoError(t, err)
	assert.Len(t, result.Posts, simpleblog.DefaultPageSize)

	require.NoError(t, svc.SetField(ctx, simpleblog.ScopeApplication, 0, simpleblog.FieldItemsPerPage, "5"))
	require.NoError(t, svc.ReloadSettings(ctx))

	result, err = svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusAll})
	require.NoError(t, err)
	assert.Len(t, result.Posts, 5)
}

func TestListPostsDeterministicOrdering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	profile := registerProfile(t, svc, "alice@idp", "Alice Author")
	seedPosts(t, svc, profile.ID, 8, true)

	first, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusAll})
	require.NoError(t, err)
	second, err := svc.ListPosts(ctx, simpleblog.ListPostsRequest{Status: simpleblog.StatusAll})
	require.NoError(t, err)

	require.Equal(t, len(first.Posts), len(second.Posts))
	for i := range first.Posts {
		assert.Equal(t, first.Posts[i].ID, second.Posts[i].ID)
	}

	// Newest first: seeded posts share timestamps at second granularity at
	// worst, so the id tie-break keeps later posts ahead.
	for i := 1; i < len(first.Posts); i++ {
		prev, cur := first.Posts[i-1], first.Posts[i]
		if prev.Published.Equal(cur.Published) {
			assert.Greater(t, prev.ID, cur.ID)
		} else {
			assert.True(t, prev.Published.After(cur.Published))
		}
	}
}
