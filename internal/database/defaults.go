package database

import (
	"context"
	"database/sql"
	"fmt"
)

type seedRow struct {
	query string
	args  []any
}

// sampleRows is the warehouse fixture loaded into a fresh database.
var sampleRows = []seedRow{
	{`INSERT INTO customers(customer_id, full_name, email, phone, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
		[]any{1, "John Smith", "john.smith@email.com", "+1-555-0123", "2024-01-15 10:30:00", "2024-01-15 10:30:00"}},
	{`INSERT INTO customers(customer_id, full_name, email, phone, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
		[]any{2, "Sarah Johnson", "sarah.j@email.com", "+1-555-0124", "2024-01-16 14:22:00", "2024-01-16 14:22:00"}},
	{`INSERT INTO customers(customer_id, full_name, email, phone, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)`,
		[]any{3, "Mike Davis", "mike.davis@email.com", nil, "2024-01-17 09:15:00", "2024-01-17 09:15:00"}},

	{`INSERT INTO products(product_id, product_name, category, price, stock_quantity) VALUES(?, ?, ?, ?, ?)`,
		[]any{1, "Wireless Headphones", "Electronics", 79.99, 150}},
	{`INSERT INTO products(product_id, product_name, category, price, stock_quantity) VALUES(?, ?, ?, ?, ?)`,
		[]any{2, "Cotton T-Shirt", "Clothing", 24.99, 200}},
	{`INSERT INTO products(product_id, product_name, category, price, stock_quantity) VALUES(?, ?, ?, ?, ?)`,
		[]any{3, "JavaScript Handbook", "Books", 39.99, 75}},

	{`INSERT INTO orders(order_id, customer_id, order_date, total_amount, status) VALUES(?, ?, ?, ?, ?)`,
		[]any{1001, 1, "2024-02-01 15:30:00", 299.99, "shipped"}},
	{`INSERT INTO orders(order_id, customer_id, order_date, total_amount, status) VALUES(?, ?, ?, ?, ?)`,
		[]any{1002, 2, "2024-02-02 11:45:00", 149.50, "delivered"}},
	{`INSERT INTO orders(order_id, customer_id, order_date, total_amount, status) VALUES(?, ?, ?, ?, ?)`,
		[]any{1003, 1, "2024-02-03 16:20:00", 89.99, "processing"}},

	{`INSERT INTO order_items(item_id, order_id, product_id, quantity, unit_price) VALUES(?, ?, ?, ?, ?)`,
		[]any{1, 1001, 1, 2, 79.99}},
	{`INSERT INTO order_items(item_id, order_id, product_id, quantity, unit_price) VALUES(?, ?, ?, ?, ?)`,
		[]any{2, 1001, 3, 1, 39.99}},
	{`INSERT INTO order_items(item_id, order_id, product_id, quantity, unit_price) VALUES(?, ?, ?, ?, ?)`,
		[]any{3, 1002, 2, 3, 24.99}},
}

// SeedDefaults loads the sample warehouse rows into an empty database.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if n > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, r := range sampleRows {
			if _, err := tx.ExecContext(ctx, r.query, r.args...); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		return nil
	})
}
