package repository

import (
	"context"

	"github.com/winteradda/storefront/models"
)

// ProductRepository stores the catalog. Update and Delete return
// pkg.ErrNotFound when the product does not exist.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// ImageInUse reports whether any stored product still points at ref,
	// as its primary image or in its gallery.
	ImageInUse(ctx context.Context, ref string) (bool, error)
}
