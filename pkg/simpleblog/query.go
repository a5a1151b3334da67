package simpleblog

import "context"

// ListPosts composes the pager with the status, category, and owner filters
// into one consistent page; admin and public listings drive it identically.
// Calling it twice with identical arguments against unmodified data returns
// identical ordering and slice boundaries.
//
// A search term delegates the whole query to the Searcher boundary; search
// supersedes the structural filters rather than merging with them.
func (s *service) ListPosts(ctx context.Context, req ListPostsRequest) (*PostPage, error) {
	pager := req.Pager
	if pager == nil {
		pager = NewPager(1, s.Settings().ItemsPerPage)
	}

	if req.SearchTerm != "" {
		posts, err := s.searcher.Find(ctx, pager, req.SearchTerm, req.ProfileSlug)
		if err != nil {
			return nil, err
		}
		return &PostPage{Posts: posts, Pager: pager}, nil
	}

	uow, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	filter := PostFilter{
		Status:      req.Status,
		CategoryIDs: req.CategoryIDs,
	}
	if req.ProfileSlug != "" {
		profile, err := uow.GetProfileBySlug(ctx, req.ProfileSlug)
		if err != nil {
			return nil, err
		}
		filter.ProfileID = profile.ID
	}

	// The pager is configured with the pre-windowing total so the page
	// count reflects the filtered set, not the unfiltered table.
	total, err := uow.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	pager.Configure(total)

	filter.Limit = pager.ItemsPerPage
	filter.Offset = pager.Offset()
	posts, err := uow.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := uow.Complete(ctx); err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Pager: pager}, nil
}
