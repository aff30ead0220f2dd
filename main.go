// Command storefront is the Winter Adda backend: accounts and the product catalog.
//
// main wires the layers in order: config, database, repositories, services,
// handlers, routes, CORS, HTTP server, graceful shutdown. There are no
// globals; everything is built here and passed down.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/winteradda/storefront/config"
	"github.com/winteradda/storefront/database"
	"github.com/winteradda/storefront/repository"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] storefront server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─── 3. Repositories, services, handlers ───
	repos, closeRepos, err := initRepositories(ctx, db.Conn, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize repositories: %v", err)
	}
	defer closeRepos()

	svcs, limiters, err := initServices(repos, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize services: %v", err)
	}
	defer svcs.Close()
	defer limiters.Login.Stop()

	h := initHandlers(svcs, limiters)

	go purgeExpiredSessions(ctx, repos.Session, time.Hour)

	// ─── 4. Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User, cfg)

	// ─── 5. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After", "Content-Disposition"},
		AllowCredentials: false,
	})

	// ─── 6. HTTP Server ───
	// WriteTimeout is generous: product uploads stream every file to the
	// image store before the response is written.
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler.Handler(mux),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	// ─── 7. Graceful Shutdown ───
	<-ctx.Done()
	log.Println("[main] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
		return
	}

	log.Println("[main] server stopped gracefully")
}

// purgeExpiredSessions drops expired refresh sessions every interval until ctx ends.
func purgeExpiredSessions(ctx context.Context, sessions repository.SessionRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				log.Printf("[sessions] failed to purge expired sessions: %v", err)
			}
		}
	}
}
