package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/passgen/passgen-go/internal/middleware"
)

// Routes bundles the handlers mounted by NewRouter. Auth and Profiles are
// nil when no database is configured, which leaves their routes unmounted.
type Routes struct {
	Generator *GeneratorHandler
	Derive    *DeriveHandler
	Auth      *AuthHandler
	Profiles  *ProfileHandler
	Tokens    middleware.TokenValidator
	Limiter   *middleware.IPRateLimiter
}

// NewRouter builds the API router.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/generate", rt.Generator.HandleGenerate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.Limiter))
		if rt.Tokens != nil {
			r.Use(middleware.OptionalJWTAuth(rt.Tokens))
		}
		r.Post("/api/v1/derive", rt.Derive.HandleDerive)
	})

	if rt.Auth == nil || rt.Profiles == nil || rt.Tokens == nil {
		return r
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.Limiter))
		r.Post("/api/v1/auth/register", rt.Auth.HandleRegister)
		r.Post("/api/v1/auth/login", rt.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(rt.Tokens))
		r.Get("/api/v1/auth/me", rt.Auth.HandleMe)

		r.Get("/api/v1/profiles", rt.Profiles.HandleList)
		r.Post("/api/v1/profiles", rt.Profiles.HandleCreate)
		r.Put("/api/v1/profiles/{name}", rt.Profiles.HandleUpdate)
		r.Delete("/api/v1/profiles/{name}", rt.Profiles.HandleDelete)
		r.With(middleware.RateLimit(rt.Limiter)).Post("/api/v1/profiles/{name}/derive", rt.Derive.HandleDeriveProfile)
	})

	return r
}
