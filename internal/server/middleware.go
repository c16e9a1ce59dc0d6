package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/goroads/kerbside/core/user"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware stamps every response with a request id so log
// lines and error references can be correlated with a single call. An
// id supplied by the caller is kept.
func requestIDMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		rw.Header().Set(requestIDHeader, id)
		h.ServeHTTP(rw, r)
	})
}

// identityMiddleware propagates the authenticated identity from the
// configured request header into the request context, where the photo
// pipeline picks it up to stamp audit metadata. Requests without the
// header still go through; uploads from them are stamped "unknown".
func identityMiddleware(cfg IdentityConfig) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if email := r.Header.Get(cfg.HeaderKeyEmail); email != "" {
				ctx := user.NewContext(r.Context(), user.User{
					Email:    email,
					Provider: cfg.ProviderDefaultName,
				})
				r = r.WithContext(ctx)
			}
			h.ServeHTTP(rw, r)
		})
	}
}
