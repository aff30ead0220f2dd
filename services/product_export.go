package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/repository"
)

// XLSXContentType is the media type of the exported workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{
	"ID", "Name", "Price", "Category", "Description", "Image", "Images",
	"Colors", "Sizes", "InStock", "IsFeatured", "CreatedAt", "UpdatedAt",
}

// CatalogExporter writes the catalog as a spreadsheet for admins.
type CatalogExporter interface {
	ExportXLSX(ctx context.Context, w io.Writer, filter models.ProductFilter) error
}

type catalogExporter struct {
	productRepo repository.ProductRepository
}

func NewCatalogExporter(productRepo repository.ProductRepository) CatalogExporter {
	return &catalogExporter{productRepo: productRepo}
}

// ExportXLSX writes one "Products" sheet: a header row, then one row per product.
func (e *catalogExporter) ExportXLSX(ctx context.Context, w io.Writer, filter models.ProductFilter) error {
	products, err := e.productRepo.List(ctx, filter)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(strings.Join(p.Images, ", "))
		row.AddCell().SetValue(strings.Join(p.Colors, ", "))
		row.AddCell().SetValue(strings.Join(p.Sizes, ", "))
		row.AddCell().SetValue(yesNo(p.InStock))
		row.AddCell().SetValue(yesNo(p.IsFeatured))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
