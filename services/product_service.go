package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
	"github.com/winteradda/storefront/repository"
)

// ProductService runs the catalog: listing, and the admin ingestion pipeline
// that turns a decoded form plus uploaded files into a stored product.
type ProductService interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error)
	Update(ctx context.Context, id string, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// allowedImageExtensions is checked against the uploaded file name.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// imageMimeExtensions is the fallback when the file name has no extension.
var imageMimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type productService struct {
	productRepo repository.ProductRepository
	images      ImageStore
	maxFiles    int
	maxSize     int64
}

func NewProductService(
	productRepo repository.ProductRepository,
	images ImageStore,
	maxFiles int,
	maxSize int64,
) ProductService {
	return &productService{
		productRepo: productRepo,
		images:      images,
		maxFiles:    maxFiles,
		maxSize:     maxSize,
	}
}

func (s *productService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// Create turns a decoded form into a stored product.
//
// Pipeline:
//  1. Refuse fields the handler could not decode (a price like "abc").
//  2. Validate the uploaded files: count, extension, size. Nothing has been
//     stored yet, so a rejected batch costs nothing.
//  3. Build the product from the input. List fields go through
//     ListField.Resolve, flags default to inStock=true and isFeatured=false.
//  4. Without files, the gallery and primary image come from the form and
//     the primary falls back to the first gallery entry.
//  5. Validate the product as a whole (name, price, category, image).
//  6. Only now upload the files, in order. Uploads replace any client image
//     references; the first one becomes the primary.
//  7. Insert. If the insert fails the fresh uploads are deleted again.
func (s *productService) Create(ctx context.Context, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	// 1. Decode failures
	if len(input.Invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, input.Invalid[0].Error())
	}

	// 2. Files
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	// 3. Fields
	product := &models.Product{
		Colors:  input.Colors.Resolve(),
		Sizes:   input.Sizes.Resolve(),
		InStock: true,
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	// 4. Client-supplied image references
	if len(files) == 0 {
		product.Images = input.Images.ResolveRefs()
		if input.Image != nil {
			product.Image = strings.TrimSpace(*input.Image)
		}
		syncPrimaryImage(product)
	}

	// 5. Whole product
	if input.Price == nil {
		return nil, fmt.Errorf("%w: price is required", pkg.ErrBadRequest)
	}
	if err := validateProduct(product, len(files) > 0); err != nil {
		return nil, err
	}

	// 6. Uploads
	if len(files) > 0 {
		refs, err := s.storeFiles(ctx, files)
		if err != nil {
			return nil, err
		}
		product.Images = refs
		product.Image = refs[0]
	}

	// 7. Insert
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.deleteImages(ctx, product.Images)
		return nil, err
	}

	log.Printf("[products] created %s (%q, %d images)", product.ID, product.Name, len(product.Images))
	return product, nil
}

// Update applies only the fields present in input. New files replace the
// whole gallery and the primary image. Fields that failed to decode keep
// their stored values.
//
// Images that the product stopped using are deleted once the new record is
// stored, unless another product shares them.
func (s *productService) Update(ctx context.Context, id string, input *models.ProductInput, files []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	previous := append([]string{product.Image}, product.Images...)

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.Colors.Present() {
		product.Colors = input.Colors.Resolve()
	}
	if input.Sizes.Present() {
		product.Sizes = input.Sizes.Resolve()
	}

	if len(files) == 0 {
		if input.Images.Present() {
			product.Images = input.Images.ResolveRefs()
			// A new gallery without an explicit primary moves the primary
			// to its first entry. An empty gallery leaves no image, which
			// validateProduct rejects.
			if input.Image == nil {
				product.Image = ""
			}
		}
		if input.Image != nil {
			product.Image = strings.TrimSpace(*input.Image)
		}
		syncPrimaryImage(product)
	}

	if err := validateProduct(product, len(files) > 0); err != nil {
		return nil, err
	}

	if len(files) > 0 {
		refs, err := s.storeFiles(ctx, files)
		if err != nil {
			return nil, err
		}
		product.Images = refs
		product.Image = refs[0]
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if len(files) > 0 {
			s.deleteImages(ctx, product.Images)
		}
		return nil, err
	}

	s.deleteImages(ctx, unreferenced(previous, product))

	log.Printf("[products] updated %s", product.ID)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.deleteImages(ctx, append([]string{product.Image}, product.Images...))

	log.Printf("[products] deleted %s", id)
	return nil
}

// validateFiles rejects the whole batch on the first problem.
func (s *productService) validateFiles(files []*multipart.FileHeader) error {
	if len(files) > s.maxFiles {
		return fmt.Errorf("%w: too many files (max %d)", pkg.ErrBadRequest, s.maxFiles)
	}

	for _, fh := range files {
		if imageExtension(fh) == "" {
			return fmt.Errorf("%w: unsupported image format: %s (allowed: jpg, jpeg, png, webp)", pkg.ErrBadRequest, fh.Filename)
		}
		if fh.Size > s.maxSize {
			return fmt.Errorf("%w: file too large: %s (max %dMB)", pkg.ErrBadRequest, fh.Filename, s.maxSize/(1024*1024))
		}
	}
	return nil
}

// storeFiles uploads in order. If one upload fails, the ones already stored
// are removed before returning.
func (s *productService) storeFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))

	for _, fh := range files {
		ref, err := s.storeFile(ctx, fh)
		if err != nil {
			s.deleteImages(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *productService) storeFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	name := fh.Filename
	if filepath.Ext(name) == "" {
		name += imageExtension(fh)
	}

	ref, err := s.images.Save(ctx, f, name)
	if err != nil {
		return "", fmt.Errorf("failed to store image %s: %w", fh.Filename, err)
	}
	return ref, nil
}

// deleteImages is best effort: failures are logged, never returned. It runs
// after the catalog write, so a ref that some product still points at is
// shared with another product (an admin can paste an existing URL) and stays.
func (s *productService) deleteImages(ctx context.Context, refs []string) {
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true

		inUse, err := s.productRepo.ImageInUse(ctx, ref)
		if err != nil {
			log.Printf("[products] kept image %s, reference check failed: %v", ref, err)
			continue
		}
		if inUse {
			continue
		}

		if err := s.images.Delete(ctx, ref); err != nil {
			log.Printf("[products] failed to delete image %s: %v", ref, err)
		}
	}
}

// imageExtension returns the normalized extension of an acceptable image, or "".
func imageExtension(fh *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != "" {
		if allowedImageExtensions[ext] {
			return ext
		}
		return ""
	}

	mimeBase, _, _ := strings.Cut(fh.Header.Get("Content-Type"), ";")
	return imageMimeExtensions[strings.TrimSpace(mimeBase)]
}

// syncPrimaryImage fills an empty primary image from the gallery.
func syncPrimaryImage(p *models.Product) {
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
}

// validateProduct checks the fields every stored product needs. hasFiles
// means the primary image is about to come from an upload.
func validateProduct(p *models.Product, hasFiles bool) error {
	var problems []string
	if p.Name == "" {
		problems = append(problems, "name is required")
	}
	if p.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if p.Category == "" {
		problems = append(problems, "category is required")
	}
	if p.Image == "" && !hasFiles {
		problems = append(problems, "an image file or image URL is required")
	}
	if len(p.Images) > models.MaxProductImages {
		problems = append(problems, fmt.Sprintf("at most %d images are allowed", models.MaxProductImages))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, strings.Join(problems, "; "))
	}
	return nil
}

// unreferenced lists images from before an update that the product no longer uses.
func unreferenced(previous []string, p *models.Product) []string {
	kept := map[string]bool{p.Image: true}
	for _, ref := range p.Images {
		kept[ref] = true
	}

	var out []string
	for _, ref := range previous {
		if !kept[ref] {
			out = append(out, ref)
		}
	}
	return out
}

