// Package main wires the storefront server together.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/winteradda/storefront/config"
	"github.com/winteradda/storefront/repository"
)

// Repositories holds every repository instance.
type Repositories struct {
	User    repository.UserRepository
	Session repository.SessionRepository
	Product repository.ProductRepository
}

// initRepositories builds the SQLite repositories. Refresh sessions move to
// Redis when REDIS_URL is set; the returned close func releases that client.
func initRepositories(ctx context.Context, conn *sql.DB, cfg *config.Config) (*Repositories, func(), error) {
	repos := &Repositories{
		User:    repository.NewSQLiteUserRepo(conn),
		Session: repository.NewSQLiteSessionRepo(conn),
		Product: repository.NewSQLiteProductRepo(conn),
	}

	if cfg.Redis.URL == "" {
		return repos, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	sessions, err := repository.NewRedisSessionRepo(ctx, rdb)
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	repos.Session = sessions
	log.Printf("[main] refresh sessions stored in redis (%s)", opts.Addr)

	return repos, func() { rdb.Close() }, nil
}
