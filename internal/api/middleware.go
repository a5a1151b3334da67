package api

import (
	"context"
	"net/http"

	"github.com/tendant/simple-blog/pkg/simpleblog"
)

// identityHeader carries the authenticated principal's opaque identity.
// Authentication itself happens upstream (a reverse proxy or gateway); the
// server trusts this header the way it would trust a verified token subject.
const identityHeader = "X-Identity"

type contextKey string

const profileKey contextKey = "profile"

// RequireProfile resolves the request identity to a profile and stores it in
// the request context. Requests without a resolvable profile get 401.
func RequireProfile(svc simpleblog.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := r.Header.Get(identityHeader)
			if identity == "" {
				http.Error(w, "missing identity", http.StatusUnauthorized)
				return
			}
			profile, ok, err := svc.FindProfileByIdentity(r.Context(), identity)
			if err != nil {
				http.Error(w, "identity lookup failed", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "unknown identity", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), profileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ProfileFrom returns the profile resolved by RequireProfile.
func ProfileFrom(ctx context.Context) (*simpleblog.Profile, bool) {
	profile, ok := ctx.Value(profileKey).(*simpleblog.Profile)
	return profile, ok
}
