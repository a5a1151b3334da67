package simpleblog

import "context"

// RepositorySearcher is the default Searcher: a case-insensitive match over
// post titles and content backed by the engine's own store. Deployments with
// a real full-text index supply their own Searcher instead; the engine only
// depends on the Find contract.
type RepositorySearcher struct {
	store Store
}

// NewRepositorySearcher creates a repository-backed searcher.
func NewRepositorySearcher(store Store) *RepositorySearcher {
	return &RepositorySearcher{store: store}
}

// Find applies the standard pager contract: Configure with the pre-window
// total, then return one offset/limit window, scoped to the profile slug
// when given.
func (r *RepositorySearcher) Find(ctx context.Context, pager *Pager, term string, profileSlug string) ([]*Post, error) {
	uow, err := r.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	var profileID int64
	if profileSlug != "" {
		profile, err := uow.GetProfileBySlug(ctx, profileSlug)
		if err != nil {
			return nil, err
		}
		profileID = profile.ID
	}

	posts, total, err := uow.SearchPosts(ctx, term, profileID, pager.ItemsPerPage, pager.Offset())
	if err != nil {
		return nil, err
	}
	pager.Configure(total)

	if err := uow.Complete(ctx); err != nil {
		return nil, err
	}
	return posts, nil
}
