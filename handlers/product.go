package handlers

import (
	"bytes"
	"net/http"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
	"github.com/winteradda/storefront/services"
)

// ProductHandler serves the catalog. Reads are public; writes and the
// export sit behind the admin chain.
type ProductHandler struct {
	productService services.ProductService
	exporter       services.CatalogExporter
}

func NewProductHandler(productService services.ProductService, exporter services.CatalogExporter) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		exporter:       exporter,
	}
}

// List godoc
// GET /api/products?category=&isFeatured=
// category "all" or absent means every category; isFeatured=true keeps featured products only.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), productFilter(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, products)
}

// Get godoc
// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, product)
}

// Create godoc
// POST /api/products
// Content-Type: multipart/form-data (files under "images" or "image") or application/json
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, files, err := decodeProductRequest(r)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), input, files)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, product)
}

// Update godoc
// PUT /api/products/{id}
// Same body as Create; fields that are not sent keep their stored values.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, files, err := decodeProductRequest(r)
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.productService.Update(r.Context(), r.PathValue("id"), input, files)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, product)
}

// Delete godoc
// DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Export godoc
// GET /api/products/export?category=&isFeatured=
// The workbook is built in memory first so a failure still gets a JSON error.
func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.exporter.ExportXLSX(r.Context(), &buf, productFilter(r)); err != nil {
		pkg.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", services.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func productFilter(r *http.Request) models.ProductFilter {
	q := r.URL.Query()
	filter := models.ProductFilter{
		FeaturedOnly: q.Get("isFeatured") == "true",
	}
	if category := q.Get("category"); category != "all" {
		filter.Category = category
	}
	return filter
}
