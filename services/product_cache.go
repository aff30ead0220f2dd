package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg/cache"
)

// CachedProductService keeps catalog listings in memory for a short time.
// Storefront pages list the catalog on every visit while admins rarely write;
// any successful write drops every cached listing.
type CachedProductService struct {
	ProductService
	listings *cache.TTLCache[models.ProductFilter, []models.Product]
}

func NewCachedProductService(inner ProductService, ttl time.Duration) *CachedProductService {
	return &CachedProductService{
		ProductService: inner,
		listings:       cache.New[models.ProductFilter, []models.Product](ttl, ttl),
	}
}

func (s *CachedProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	if products, ok := s.listings.Get(filter); ok {
		return products, nil
	}

	products, err := s.ProductService.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.listings.Set(filter, products)
	return products, nil
}

func (s *CachedProductService) Create(ctx context.Context, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.ProductService.Create(ctx, input, files)
	if err == nil {
		s.listings.Clear()
	}
	return product, err
}

func (s *CachedProductService) Update(ctx context.Context, id string, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.ProductService.Update(ctx, id, input, files)
	if err == nil {
		s.listings.Clear()
	}
	return product, err
}

func (s *CachedProductService) Delete(ctx context.Context, id string) error {
	err := s.ProductService.Delete(ctx, id)
	if err == nil {
		s.listings.Clear()
	}
	return err
}

// Close stops the cache's cleanup goroutine.
func (s *CachedProductService) Close() {
	s.listings.Close()
}
