package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/winteradda/storefront/database"
	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
)

// sqliteProductRepo writes a product row and its gallery rows together, so
// it needs the pool itself (not a TxQuerier) to open transactions.
type sqliteProductRepo struct {
	db *sql.DB
}

func NewSQLiteProductRepo(db *sql.DB) ProductRepository {
	return &sqliteProductRepo{db: db}
}

// Gallery URLs are folded into a JSON array in position order.
const productSelect = `
	SELECT p.id, p.name, p.price, p.description, p.category, p.image,
	       p.colors, p.sizes, p.in_stock, p.is_featured, p.created_at, p.updated_at,
	       (SELECT json_group_array(i.url ORDER BY i.position)
	          FROM product_images i WHERE i.product_id = p.id)
	FROM products p`

func (r *sqliteProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	colors, sizes, err := encodeAttributes(product)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, price, description, category, image, colors, sizes, in_stock, is_featured, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			product.ID, product.Name, product.Price, product.Description, product.Category, product.Image,
			colors, sizes, product.InStock, product.IsFeatured, product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return insertImages(ctx, tx, product.ID, product.Images)
	})
}

func (r *sqliteProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id)

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List returns matching products in insertion order.
func (r *sqliteProductRepo) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "p.category = ?")
		args = append(args, filter.Category)
	}
	if filter.FeaturedOnly {
		where = append(where, "p.is_featured = 1")
	}

	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}

	return products, nil
}

// Update overwrites every column and replaces the gallery.
func (r *sqliteProductRepo) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	colors, sizes, err := encodeAttributes(product)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET name = ?, price = ?, description = ?, category = ?, image = ?,
			    colors = ?, sizes = ?, in_stock = ?, is_featured = ?, updated_at = ?
			WHERE id = ?`,
			product.Name, product.Price, product.Description, product.Category, product.Image,
			colors, sizes, product.InStock, product.IsFeatured, product.UpdatedAt, product.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: product", pkg.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ?`, product.ID); err != nil {
			return fmt.Errorf("failed to clear product images: %w", err)
		}
		return insertImages(ctx, tx, product.ID, product.Images)
	})
}

// Delete removes the product; its gallery rows go with it through the FK cascade.
func (r *sqliteProductRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product", pkg.ErrNotFound)
	}

	return nil
}

func (r *sqliteProductRepo) ImageInUse(ctx context.Context, ref string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM products WHERE image = ?)
		    OR EXISTS (SELECT 1 FROM product_images WHERE url = ?)`

	var inUse bool
	if err := r.db.QueryRowContext(ctx, query, ref, ref).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check image references: %w", err)
	}
	return inUse, nil
}

func insertImages(ctx context.Context, tx *sql.Tx, productID string, images []string) error {
	for i, url := range images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, position, url) VALUES (?, ?, ?)`,
			productID, i, url,
		); err != nil {
			return fmt.Errorf("failed to store product image %d: %w", i, err)
		}
	}
	return nil
}

func encodeAttributes(product *models.Product) (colors, sizes string, err error) {
	c, err := json.Marshal(nonNil(product.Colors))
	if err != nil {
		return "", "", fmt.Errorf("failed to encode colors: %w", err)
	}
	s, err := json.Marshal(nonNil(product.Sizes))
	if err != nil {
		return "", "", fmt.Errorf("failed to encode sizes: %w", err)
	}
	return string(c), string(s), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p                     models.Product
		colors, sizes, images string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Image,
		&colors, &sizes, &p.InStock, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
		&images,
	); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{{colors, &p.Colors}, {sizes, &p.Sizes}, {images, &p.Images}} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode product %s attributes: %w", p.ID, err)
		}
	}
	return &p, nil
}
