package main

import (
	"fmt"
	"log"
	"time"

	"github.com/winteradda/storefront/config"
	"github.com/winteradda/storefront/pkg/ratelimit"
	"github.com/winteradda/storefront/services"
)

// Services holds every service instance.
type Services struct {
	Auth     services.AuthService
	Product  services.ProductService
	Exporter services.CatalogExporter

	productCache *services.CachedProductService
}

// Close stops background work owned by the services.
func (s *Services) Close() {
	s.productCache.Close()
}

// RateLimiters holds the request limiters; Stop them on shutdown.
type RateLimiters struct {
	Login *ratelimit.LoginRateLimiter
}

// initServices builds the services. Product images go to Cloudinary when
// CLOUDINARY_URL is set and to the local upload directory otherwise.
func initServices(repos *Repositories, cfg *config.Config) (*Services, *RateLimiters, error) {
	images, err := initImageStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	authService := services.NewAuthService(
		repos.User,
		repos.Session,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	productService := services.NewCachedProductService(
		services.NewProductService(
			repos.Product,
			images,
			cfg.Upload.MaxFiles,
			cfg.Upload.MaxSize,
		),
		30*time.Second,
	)

	limiters := &RateLimiters{
		// 5 attempts per minute per IP
		Login: ratelimit.NewLoginRateLimiter(5, time.Minute),
	}

	return &Services{
		Auth:         authService,
		Product:      productService,
		Exporter:     services.NewCatalogExporter(repos.Product),
		productCache: productService,
	}, limiters, nil
}

func initImageStore(cfg *config.Config) (services.ImageStore, error) {
	if cfg.Cloudinary.URL != "" {
		store, err := services.NewCloudinaryImageStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			return nil, fmt.Errorf("failed to init cloudinary: %w", err)
		}
		log.Printf("[main] product images stored in cloudinary (folder=%s)", cfg.Cloudinary.Folder)
		return store, nil
	}

	store, err := services.NewDiskImageStore(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	log.Printf("[main] product images stored on disk (%s)", cfg.Upload.Dir)
	return store, nil
}
