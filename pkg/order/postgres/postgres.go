package postgres

import (
	"context"
	"database/sql"

	"posflow/pkg/order"
)

// Submitter persists orders in PostgreSQL.
type Submitter struct {
	db *sql.DB
}

// New creates a PostgreSQL submitter. The caller must ensure the database
// has the order tables:
// CREATE TABLE IF NOT EXISTS orders (id TEXT PRIMARY KEY, type TEXT NOT NULL, delivery_address TEXT, additional_notes TEXT, total_amount NUMERIC NOT NULL, created_at TIMESTAMPTZ NOT NULL);
// CREATE TABLE IF NOT EXISTS order_items (order_id TEXT REFERENCES orders(id), item_id TEXT NOT NULL, name TEXT NOT NULL, price NUMERIC NOT NULL, quantity INT NOT NULL);
func New(db *sql.DB) *Submitter {
	return &Submitter{db: db}
}

// CreateOrder inserts the order header.
func (s *Submitter) CreateOrder(ctx context.Context, o order.Order) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO orders (id,type,delivery_address,additional_notes,total_amount,created_at) VALUES ($1,$2,$3,$4,$5,$6)",
		o.ID, string(o.Type), o.DeliveryAddress, o.AdditionalNotes, o.TotalAmount, o.CreatedAt)
	return err
}

// CreateOrderItems inserts the order lines. A failure here after a
// successful CreateOrder leaves the header behind; the caller reports the
// whole submission as failed.
func (s *Submitter) CreateOrderItems(ctx context.Context, orderID string, lines []order.Line) error {
	for _, l := range lines {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO order_items (order_id,item_id,name,price,quantity) VALUES ($1,$2,$3,$4,$5)",
			orderID, l.ItemID, l.Name, l.Price, l.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}
