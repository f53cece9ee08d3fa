package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	Category          string    `json:"category"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Price             float64   `json:"price"`
	Description       string    `json:"description"`
	WarehouseLocation string    `json:"warehouse_location"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StockStatus derives the display status from stock level vs threshold.
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "out_of_stock"
	case p.Stock <= p.LowStockThreshold:
		return "low_stock"
	default:
		return "in_stock"
	}
}

// InventoryValue is the stock on hand valued at the unit price.
func (p *Product) InventoryValue() float64 {
	return float64(p.Stock) * p.Price
}

const productSelectCols = `id, name, sku, category, stock, low_stock_threshold, price, description, warehouse_location, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var createdAt, updatedAt any
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Stock, &p.LowStockThreshold,
		&p.Price, &p.Description, &p.WarehouseLocation, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (db *DB) CreateProduct(p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := db.Exec(db.Q(`INSERT INTO products (id, name, sku, category, stock, low_stock_threshold, price, description, warehouse_location) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.SKU, p.Category, p.Stock, p.LowStockThreshold, p.Price, p.Description, p.WarehouseLocation)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (db *DB) GetProduct(id string) (*Product, error) {
	row := db.QueryRow(db.Q(`SELECT `+productSelectCols+` FROM products WHERE id=?`), id)
	return scanProduct(row)
}

func (db *DB) GetProductBySKU(sku string) (*Product, error) {
	row := db.QueryRow(db.Q(`SELECT `+productSelectCols+` FROM products WHERE sku=?`), sku)
	return scanProduct(row)
}

func (db *DB) ListProducts() ([]*Product, error) {
	rows, err := db.Query(`SELECT ` + productSelectCols + ` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (db *DB) UpdateProductStock(id string, stock int) error {
	res, err := db.Exec(db.Q(`UPDATE products SET stock=?, updated_at=datetime('now','localtime') WHERE id=?`), stock, id)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return requireRowAffected(res, "product", id)
}

// AdjustProductStockBySKU applies a signed delta, clamping at zero.
// Used by inbound warehouse stock updates keyed on SKU.
func (db *DB) AdjustProductStockBySKU(sku string, delta int) (*Product, error) {
	p, err := db.GetProductBySKU(sku)
	if err != nil {
		return nil, err
	}
	stock := p.Stock + delta
	if stock < 0 {
		stock = 0
	}
	if err := db.UpdateProductStock(p.ID, stock); err != nil {
		return nil, err
	}
	p.Stock = stock
	return p, nil
}

func (db *DB) DeleteAllProducts() error {
	_, err := db.Exec(`DELETE FROM products`)
	return err
}

func (db *DB) CountProducts() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
