package api

import (
	"errors"
	"net/http"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// writeError maps engine errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var validation *simpleblog.ValidationError
	switch {
	case errors.Is(err, simpleblog.ErrProfileNotFound),
		errors.Is(err, simpleblog.ErrPostNotFound),
		errors.Is(err, simpleblog.ErrCategoryNotFound),
		errors.Is(err, simpleblog.ErrObjectNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, simpleblog.ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, simpleblog.ErrSlugTaken),
		errors.Is(err, simpleblog.ErrDuplicateField):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &validation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
