package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gccache/internal/api/apierr"
	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/session"
)

type contextKey string

const cacheContextKey contextKey = "cache"

// ActiveFingerprint is the path alias for the session's active profile
const ActiveFingerprint = "active"

// Profile resolves the {fingerprint} route variable to a resident cache.
// The alias "active" resolves to the session's active cache.
func Profile(store *cache.Store, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fp := mux.Vars(r)["fingerprint"]

			var c *cache.Cache
			if fp == ActiveFingerprint {
				c = sessions.ActiveCache()
			} else if found, ok := store.Lookup(model.Fingerprint(fp)); ok {
				c = found
			}
			if c == nil {
				apierr.WriteError(w, model.ErrProfileNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), cacheContextKey, c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCache returns the cache resolved by the Profile middleware
func GetCache(ctx context.Context) *cache.Cache {
	c, _ := ctx.Value(cacheContextKey).(*cache.Cache)
	return c
}

// MustGetCache returns the resolved cache or panics
func MustGetCache(ctx context.Context) *cache.Cache {
	c := GetCache(ctx)
	if c == nil {
		panic("no cache in context - profile middleware not applied?")
	}
	return c
}
