package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderProduct struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Products  []OrderProduct `json:"products"`
	Status    string         `json:"status"`
	OrderLink string         `json:"order_link"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemCount is the total quantity across all line items.
func (o *Order) ItemCount() int {
	total := 0
	for _, p := range o.Products {
		total += p.Quantity
	}
	return total
}

const orderSelectCols = `id, date, time, products, status, order_link, email, name, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var products []byte
	var createdAt, updatedAt any
	err := row.Scan(&o.ID, &o.Date, &o.Time, &products, &o.Status,
		&o.OrderLink, &o.Email, &o.Name, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &o.Products); err != nil {
			return nil, fmt.Errorf("order %s products: %w", o.ID, err)
		}
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return &o, nil
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (db *DB) CreateOrder(o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	products, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("marshal order products: %w", err)
	}
	_, err = db.Exec(db.Q(`INSERT INTO orders (id, date, time, products, status, order_link, email, name) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		o.ID, o.Date, o.Time, string(products), o.Status, o.OrderLink, o.Email, o.Name)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (db *DB) GetOrder(id string) (*Order, error) {
	row := db.QueryRow(db.Q(`SELECT `+orderSelectCols+` FROM orders WHERE id=?`), id)
	return scanOrder(row)
}

// ListOrders returns orders newest first, matching the fetch-all endpoint's
// sort on the original collection (date desc, time desc).
func (db *DB) ListOrders() ([]*Order, error) {
	rows, err := db.Query(`SELECT ` + orderSelectCols + ` FROM orders ORDER BY date DESC, time DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (db *DB) UpdateOrderStatus(id, status string) error {
	res, err := db.Exec(db.Q(`UPDATE orders SET status=?, updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireRowAffected(res, "order", id)
}

func (db *DB) CountOrders() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}
