package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// AdminHandler serves the authenticated author/admin surface.
type AdminHandler struct {
	service simpleblog.Service
	assets  *simpleblog.AssetStore
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service simpleblog.Service, assets *simpleblog.AssetStore) *AdminHandler {
	return &AdminHandler{service: service, assets: assets}
}

// Routes returns the admin routes. Everything except registration requires a
// resolvable profile.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(RequireProfile(h.service))

		r.Get("/me", h.Me)
		r.Put("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)

		r.Get("/posts", h.ListPosts)
		r.Post("/posts", h.CreatePost)
		r.Get("/posts/{id}", h.GetPost)
		r.Put("/posts/{id}", h.SavePost)
		r.Delete("/posts/{id}", h.DeletePost)
		r.Post("/posts/{id}/publish", h.PublishPost)
		r.Post("/posts/{id}/unpublish", h.UnpublishPost)
		r.Post("/posts/{id}/feature", h.FeaturePost)

		r.Get("/posts/{id}/categories", h.PostCategories)
		r.Put("/posts/{id}/categories", h.ReplacePostCategories)
		r.Post("/posts/{id}/categories/{categoryID}", h.AssignCategory)
		r.Delete("/posts/{id}/categories/{categoryID}", h.UnassignCategory)

		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.SaveCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)
		r.Get("/categories/{id}/stats", h.CategoryStats)

		r.Get("/fields", h.GetFields)
		r.Put("/fields/{key}", h.SetField)
		r.Get("/settings", h.Settings)
		r.Post("/settings/reload", h.ReloadSettings)

		r.Post("/assets/{kind}", h.UploadAsset)
	})

	return r
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// RegisterRequest is the request body for profile registration.
type RegisterRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// Register creates a profile for the request identity. The first profile in
// an empty system receives admin rights.
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity := r.Header.Get(identityHeader)
	if identity == "" {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.RegisterProfile(r.Context(), simpleblog.RegisterProfileRequest{
		IdentityName: identity,
		AuthorName:   req.AuthorName,
		AuthorEmail:  req.AuthorEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, profile)
}

// Me returns the authenticated profile.
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())
	render.JSON(w, r, profile)
}

// UpdateMeRequest is the request body for profile settings updates. Empty
// fields leave the stored value unchanged.
type UpdateMeRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BlogTheme   string `json:"blog_theme"`
	Avatar      string `json:"avatar"`
	Logo        string `json:"logo"`
	Cover       string `json:"cover"`
}

// UpdateMe updates the authenticated profile's settings.
func (h *AdminHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), simpleblog.UpdateProfileRequest{
		ProfileID:   profile.ID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Title:       req.Title,
		Description: req.Description,
		BlogTheme:   req.BlogTheme,
		Avatar:      req.Avatar,
		Logo:        req.Logo,
		Cover:       req.Cover,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, updated)
}

// DeleteMe removes the authenticated profile and everything it owns.
func (h *AdminHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())
	if err := h.service.DeleteProfile(r.Context(), profile.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPosts lists the authenticated profile's posts. The status query
// parameter accepts A, D or P; page selects the window. The page size is the
// profile's postListSize field when set.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	status := simpleblog.PostStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = simpleblog.StatusAll
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	size, err := h.service.GetIntField(r.Context(), simpleblog.ScopeProfile, profile.ID,
		simpleblog.FieldPostListSize, h.service.Settings().ItemsPerPage)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.ListPosts(r.Context(), simpleblog.ListPostsRequest{
		Status:      status,
		ProfileSlug: profile.Slug,
		Pager:       simpleblog.NewPager(page, size),
		SearchTerm:  r.URL.Query().Get("term"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, result)
}

// PostRequest is the request body for creating and saving posts.
type PostRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Description string  `json:"description"`
	Cover       string  `json:"cover"`
	Slug        string  `json:"slug"`
	Publish     bool    `json:"publish"`
	CategoryIDs []int64 `json:"category_ids"`
}

// CreatePost creates a post owned by the authenticated profile.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(r.Context(), simpleblog.CreatePostRequest{
		ProfileID:   profile.ID,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Cover:       req.Cover,
		Slug:        req.Slug,
		Publish:     req.Publish,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// GetPost returns one post by id.
func (h *AdminHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, post)
}

// SavePost overwrites a post's content fields and optionally publishes it.
func (h *AdminHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.SavePost(r.Context(), simpleblog.SavePostRequest{
		ID:          id,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Cover:       req.Cover,
		Slug:        req.Slug,
		Publish:     req.Publish,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, post)
}

// DeletePost removes a post and its category links.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishPost publishes a post, notifying subscribers.
func (h *AdminHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	if err := h.service.PublishPost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnpublishPost returns a post to the draft state.
func (h *AdminHandler) UnpublishPost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	if err := h.service.UnpublishPost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FeatureRequest is the request body for featuring a post.
type FeatureRequest struct {
	Featured bool `json:"featured"`
}

// FeaturePost toggles the featured flag. Admin only.
func (h *AdminHandler) FeaturePost(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req FeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.FeaturePost(r.Context(), id, req.Featured, profile); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostCategories lists the categories attached to a post.
func (h *AdminHandler) PostCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	refs, err := h.service.CategoriesForPost(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, refs)
}

// ReplaceCategoriesRequest is the request body for replacing a post's
// category set.
type ReplaceCategoriesRequest struct {
	CategoryIDs []int64 `json:"category_ids"`
}

// ReplacePostCategories replaces a post's category set in one operation.
func (h *AdminHandler) ReplacePostCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var req ReplaceCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CategoryIDs == nil {
		req.CategoryIDs = []int64{}
	}

	if err := h.service.ReplacePostCategories(r.Context(), id, req.CategoryIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignCategory links a category to a post. Repeats are no-ops.
func (h *AdminHandler) AssignCategory(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	categoryID, ok := idParam(r, "categoryID")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	if err := h.service.AssignCategory(r.Context(), postID, categoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnassignCategory removes the link between a category and a post.
func (h *AdminHandler) UnassignCategory(w http.ResponseWriter, r *http.Request) {
	postID, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	categoryID, ok := idParam(r, "categoryID")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	if err := h.service.UnassignCategory(r.Context(), postID, categoryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories lists the authenticated profile's categories.
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())
	categories, err := h.service.ListCategories(r.Context(), profile.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, categories)
}

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SaveCategory creates a category when id is zero, updates it otherwise.
func (h *AdminHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.service.SaveCategory(r.Context(), simpleblog.SaveCategoryRequest{
		ID:          req.ID,
		ProfileID:   profile.ID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, category)
}

// DeleteCategory removes a category and its post links.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CategoryStats returns post and view aggregates for a category.
func (h *AdminHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	stats, err := h.service.CategoryStats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, stats)
}

// fieldScope selects between the caller's profile scope and the application
// scope. Application-scope writes are restricted to admins at this layer;
// the engine itself does not authorize field access.
func fieldScope(r *http.Request, profile *simpleblog.Profile) (simpleblog.FieldScope, int64, bool) {
	if r.URL.Query().Get("scope") == "application" {
		return simpleblog.ScopeApplication, 0, profile.IsAdmin
	}
	return simpleblog.ScopeProfile, profile.ID, true
}

// GetFields returns all custom fields in the selected scope.
func (h *AdminHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())
	scope, ownerID, allowed := fieldScope(r, profile)
	if !allowed {
		http.Error(w, "admin required", http.StatusForbidden)
		return
	}
	fields, err := h.service.GetFields(r.Context(), scope, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, fields)
}

// SetFieldRequest is the request body for field upserts.
type SetFieldRequest struct {
	Value string `json:"value"`
}

// SetField upserts one custom field in the selected scope.
func (h *AdminHandler) SetField(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())
	scope, ownerID, allowed := fieldScope(r, profile)
	if !allowed {
		http.Error(w, "admin required", http.StatusForbidden)
		return
	}

	var req SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := chi.URLParam(r, "key")
	if err := h.service.SetField(r.Context(), scope, ownerID, key, req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settings returns the current blog settings snapshot.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Settings())
}

// ReloadSettings rereads the application-scope fields into the settings
// snapshot.
func (h *AdminHandler) ReloadSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ReloadSettings(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, r, h.service.Settings())
}

// UploadAssetResponse is the response body for asset uploads.
type UploadAssetResponse struct {
	ObjectKey string `json:"object_key"`
	URL       string `json:"url"`
}

// UploadAsset stores an uploaded file and returns its key and public URL.
func (h *AdminHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	profile, _ := ProfileFrom(r.Context())

	kind := simpleblog.AssetKind(chi.URLParam(r, "kind"))
	switch kind {
	case simpleblog.AssetAvatar, simpleblog.AssetLogo, simpleblog.AssetCover, simpleblog.AssetImage:
	default:
		http.Error(w, "invalid asset kind", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key, url, err := h.assets.Upload(r.Context(), profile.ID, kind, header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadAssetResponse{ObjectKey: key, URL: url})
}
