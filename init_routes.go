package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/winteradda/storefront/config"
	"github.com/winteradda/storefront/middleware"
	"github.com/winteradda/storefront/repository"
	"github.com/winteradda/storefront/services"
)

// initRoutes builds the middleware chains and registers every endpoint.
//
// Literal paths go before parametric ones: "/api/products/export" must be
// registered ahead of "/api/products/{id}" so it is not read as an id.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
	cfg *config.Config,
) {
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	adminMw := middleware.NewAdminMiddleware()

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(http.HandlerFunc(handler)))
	}

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"storefront"}`)
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.Handle("POST /api/auth/logout", auth(h.Auth.Logout))

	// User
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// Products: reads are public, writes are admin only
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.Handle("GET /api/products/export", authAdmin(h.Product.Export))
	mux.HandleFunc("GET /api/products/{id}", h.Product.Get)
	mux.Handle("POST /api/products", authAdmin(h.Product.Create))
	mux.Handle("PUT /api/products/{id}", authAdmin(h.Product.Update))
	mux.Handle("DELETE /api/products/{id}", authAdmin(h.Product.Delete))

	// Local image store: GET /uploads/<file> → <UPLOAD_DIR>/<file>.
	// Only flat file names are served.
	if cfg.Cloudinary.URL == "" {
		files := http.FileServer(http.Dir(cfg.Upload.Dir))
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "" || strings.Contains(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
				http.NotFound(w, r)
				return
			}
			files.ServeHTTP(w, r)
		})))
	}
}
