package store

import (
	"context"
	"fmt"
	"strings"

	"farmer-portal/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// GetProductsByFarmer retrieves all products of a farmer with their reviews
func (s *Store) GetProductsByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT id, farmer_id, name, slug, description, price, quantity, unit, category, images, created_at, updated_at
		FROM products WHERE farmer_id = $1`, farmerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	query, args, err := sqlx.In(
		`SELECT id, product_id, farmer_id, user_id, rating, comment, created_at
		FROM reviews WHERE product_id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var reviews []models.Review
	if err := s.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}

	byProduct := make(map[string][]models.Review, len(products))
	for _, r := range reviews {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}
	for i := range products {
		products[i].Reviews = byProduct[products[i].ID]
		if products[i].Reviews == nil {
			products[i].Reviews = []models.Review{}
		}
	}

	return products, nil
}

// CreateProduct inserts a product linked to its farmer
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, farmer_id, name, slug, description, price, quantity, unit, category, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		product.ID, product.FarmerID, product.Name, product.Slug, product.Description,
		product.Price, product.Quantity, product.Unit, product.Category, product.Images,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

// UpdateProduct writes the sent fields of a product owned by in.FarmerID.
// A product of another farmer is reported as not found.
func (s *Store) UpdateProduct(ctx context.Context, in models.ProductInput) error {
	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.Slug != nil {
		set("slug", *in.Slug)
	}
	if in.Description != nil {
		set("description", *in.Description)
	}
	if in.Price != nil {
		set("price", *in.Price)
	}
	if in.Quantity != nil {
		set("quantity", *in.Quantity)
	}
	if in.Unit != nil {
		set("unit", *in.Unit)
	}
	if in.Category != nil {
		set("category", *in.Category)
	}
	if in.Images != nil {
		set("images", pq.StringArray(*in.Images))
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, in.ID, in.FarmerID)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d AND farmer_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return expectRow(res, "product", in.ID)
}

// DeleteProduct removes a product owned by farmerID
func (s *Store) DeleteProduct(ctx context.Context, farmerID, productID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND farmer_id = $2", productID, farmerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return expectRow(res, "product", productID)
}
