package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/markdown"
)

// PublicHandler serves the unauthenticated reader surface.
type PublicHandler struct {
	service  simpleblog.Service
	assets   *simpleblog.AssetStore
	renderer *markdown.Renderer
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(service simpleblog.Service, assets *simpleblog.AssetStore) *PublicHandler {
	return &PublicHandler{
		service:  service,
		assets:   assets,
		renderer: markdown.New(),
	}
}

// Routes returns the public routes.
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{slug}", h.GetPost)
	r.Get("/profiles/{slug}", h.GetProfile)
	r.Get("/profiles/{slug}/categories", h.ProfileCategories)
	r.Post("/newsletter/subscribe", h.Subscribe)
	r.Post("/newsletter/unsubscribe", h.Unsubscribe)
	r.Get("/files/*", h.ServeAsset)

	return r
}

// ListPosts lists published posts. Query parameters: page, profile, category
// (repeatable), term. A search term supersedes the structural filters.
func (h *PublicHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	var categoryIDs []int64
	for _, raw := range q["category"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			categoryIDs = append(categoryIDs, id)
		}
	}

	result, err := h.service.ListPosts(r.Context(), simpleblog.ListPostsRequest{
		Status:      simpleblog.StatusPublished,
		CategoryIDs: categoryIDs,
		ProfileSlug: q.Get("profile"),
		Pager:       simpleblog.NewPager(page, h.service.Settings().ItemsPerPage),
		SearchTerm:  q.Get("term"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, result)
}

// PostResponse is a post with its content rendered to sanitized HTML and its
// category list attached.
type PostResponse struct {
	ID          int64                    `json:"id"`
	ProfileID   int64                    `json:"profile_id"`
	Slug        string                   `json:"slug"`
	Title       string                   `json:"title"`
	HTML        string                   `json:"html"`
	Description string                   `json:"description,omitempty"`
	Cover       string                   `json:"cover,omitempty"`
	Published   time.Time                `json:"published"`
	IsFeatured  bool                     `json:"is_featured"`
	PostViews   int                      `json:"post_views"`
	Categories  []simpleblog.CategoryRef `json:"categories"`
}

// GetPost returns one published post by slug, rendered, and counts the view.
func (h *PublicHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.service.GetPostBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if !post.IsPublished() {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}

	html, err := h.renderer.Render(post.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := h.service.CategoriesForPost(r.Context(), post.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Count the view after the post resolved; a failed counter does not
	// fail the read.
	_ = h.service.AddPostView(r.Context(), post.ID)

	render.JSON(w, r, PostResponse{
		ID:          post.ID,
		ProfileID:   post.ProfileID,
		Slug:        post.Slug,
		Title:       post.Title,
		HTML:        html,
		Description: post.Description,
		Cover:       post.Cover,
		Published:   post.Published,
		IsFeatured:  post.IsFeatured,
		PostViews:   post.PostViews + 1,
		Categories:  categories,
	})
}

// GetProfile returns one profile's public blog identity by slug.
func (h *PublicHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfileBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, profile)
}

// ProfileCategories lists a profile's categories.
func (h *PublicHandler) ProfileCategories(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfileBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	categories, err := h.service.ListCategories(r.Context(), profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, categories)
}

// SubscribeRequest is the request body for newsletter subscription changes.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe adds an email to the newsletter subscriber list.
func (h *PublicHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !strings.Contains(req.Email, "@") {
		http.Error(w, "invalid email", http.StatusBadRequest)
		return
	}
	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unsubscribe removes an email from the newsletter subscriber list.
func (h *PublicHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.Unsubscribe(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeAsset streams an asset's bytes from the blob store.
func (h *PublicHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "missing object key", http.StatusBadRequest)
		return
	}

	reader, err := h.assets.Open(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	defer reader.Close()

	if _, err := io.Copy(w, reader); err != nil {
		return
	}
}
