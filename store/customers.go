package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Orders     int       `json:"orders"`
	TotalSpent float64   `json:"total_spent"`
	LastOrder  string    `json:"last_order"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	JoinDate   string    `json:"join_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const customerSelectCols = `id, name, email, phone, orders, total_spent, last_order, status, location, join_date, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*Customer, error) {
	var c Customer
	var createdAt, updatedAt any
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Orders, &c.TotalSpent,
		&c.LastOrder, &c.Status, &c.Location, &c.JoinDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

func scanCustomers(rows *sql.Rows) ([]*Customer, error) {
	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (db *DB) CreateCustomer(c *Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := db.Exec(db.Q(`INSERT INTO customers (id, name, email, phone, orders, total_spent, last_order, status, location, join_date) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.Name, c.Email, c.Phone, c.Orders, c.TotalSpent, c.LastOrder, c.Status, c.Location, c.JoinDate)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (db *DB) GetCustomer(id string) (*Customer, error) {
	row := db.QueryRow(db.Q(`SELECT `+customerSelectCols+` FROM customers WHERE id=?`), id)
	return scanCustomer(row)
}

func (db *DB) ListCustomers() ([]*Customer, error) {
	rows, err := db.Query(`SELECT ` + customerSelectCols + ` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (db *DB) UpdateCustomerStatus(id, status string) error {
	res, err := db.Exec(db.Q(`UPDATE customers SET status=?, updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	if err != nil {
		return fmt.Errorf("update customer status: %w", err)
	}
	return requireRowAffected(res, "customer", id)
}

func (db *DB) CountCustomers() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

func (db *DB) DeleteCustomer(id string) error {
	res, err := db.Exec(db.Q(`DELETE FROM customers WHERE id=?`), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "customer", id)
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, sql.ErrNoRows)
	}
	return nil
}
