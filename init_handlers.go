package main

import (
	"github.com/winteradda/storefront/handlers"
)

// Handlers holds every HTTP handler.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Product *handlers.ProductHandler
}

func initHandlers(svcs *Services, limiters *RateLimiters) *Handlers {
	return &Handlers{
		Auth:    handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Product: handlers.NewProductHandler(svcs.Product, svcs.Exporter),
	}
}
