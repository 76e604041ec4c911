package store

import (
	"context"
	"database/sql"
	"fmt"

	"farmer-portal/internal/models"
)

const farmerOrdersQuery = `
	SELECT o.id, o.order_code, o.created_at, o.amount,
		u.username AS user_name, u.email AS user_email,
		o.contact, o.status, o.address, o.quantity,
		p.id AS product_id, p.name AS product_name, p.price AS product_price,
		p.slug AS product_slug, p.images AS product_images
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN products p ON p.id = o.product_id
	WHERE o.farmer_id = $1`

// GetFarmerOrders retrieves orders for a farmer joined with buyer and product.
// A positive limit caps the number of rows; no ordering is applied.
func (s *Store) GetFarmerOrders(ctx context.Context, farmerID string, limit int) ([]models.OrderRow, error) {
	rows := []models.OrderRow{}
	query := farmerOrdersQuery
	args := []interface{}{farmerID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select farmer orders: %w", err)
	}
	return rows, nil
}

// UpdateOrderStatus updates the shipping status of an order placed with
// farmerID
func (s *Store) UpdateOrderStatus(ctx context.Context, farmerID, orderID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND farmer_id = $3",
		status, orderID, farmerID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return expectRow(res, "order", orderID)
}

// GetFarmerStats runs the four dashboard aggregates in one read-only transaction
func (s *Store) GetFarmerStats(ctx context.Context, farmerID string) (*models.FarmerStats, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var stats models.FarmerStats

	if err := tx.GetContext(ctx, &stats.TotalSales,
		"SELECT COALESCE(SUM(amount), 0) FROM orders WHERE farmer_id = $1", farmerID); err != nil {
		return nil, fmt.Errorf("failed to sum order amounts: %w", err)
	}
	if err := tx.GetContext(ctx, &stats.Orders,
		"SELECT COUNT(*) FROM orders WHERE farmer_id = $1", farmerID); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := tx.GetContext(ctx, &stats.Products,
		"SELECT COUNT(*) FROM products WHERE farmer_id = $1", farmerID); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := tx.GetContext(ctx, &stats.Ratings,
		"SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE farmer_id = $1", farmerID); err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &stats, nil
}
