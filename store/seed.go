package store

import (
	"fmt"
	"log"
)

// Seed fixtures mirror the demo data the dashboard ships with. Orders,
// customers, feedback and incidents are only seeded into an empty
// collection; products replace whatever is there (the inventory sample
// endpoint has always been a reset).

func SampleCustomers() []*Customer {
	return []*Customer{
		{ID: "507f1f77bcf86cd799439011", Name: "John Doe", Email: "john@example.com", Phone: "+1 (555) 123-4567",
			Orders: 12, TotalSpent: 1543.98, LastOrder: "2024-01-15", Status: "active", Location: "New York, NY", JoinDate: "2023-06-15"},
		{ID: "507f1f77bcf86cd799439012", Name: "Jane Smith", Email: "jane@example.com", Phone: "+1 (555) 234-5678",
			Orders: 8, TotalSpent: 892.45, LastOrder: "2024-01-14", Status: "active", Location: "Los Angeles, CA", JoinDate: "2023-08-22"},
		{ID: "507f1f77bcf86cd799439013", Name: "Mike Johnson", Email: "mike@example.com", Phone: "+1 (555) 345-6789",
			Orders: 15, TotalSpent: 2156.32, LastOrder: "2024-01-13", Status: "vip", Location: "Chicago, IL", JoinDate: "2023-04-10"},
		{ID: "507f1f77bcf86cd799439014", Name: "Sarah Wilson", Email: "sarah@example.com", Phone: "+1 (555) 456-7890",
			Orders: 3, TotalSpent: 267.89, LastOrder: "2024-01-12", Status: "inactive", Location: "Houston, TX", JoinDate: "2023-11-05"},
		{ID: "507f1f77bcf86cd799439015", Name: "David Brown", Email: "david@example.com", Phone: "+1 (555) 567-8901",
			Orders: 21, TotalSpent: 3847.56, LastOrder: "2024-01-11", Status: "vip", Location: "Phoenix, AZ", JoinDate: "2023-02-18"},
	}
}

func SampleOrders() []*Order {
	return []*Order{
		{Date: "2024-01-20", Time: "14:30", Status: "pending", OrderLink: "ORD-2024-001", Email: "john.doe@example.com", Name: "John Doe",
			Products: []OrderProduct{{Name: `Laptop Pro 15"`, Quantity: 1}, {Name: "Wireless Mouse", Quantity: 2}}},
		{Date: "2024-01-19", Time: "09:15", Status: "fulfilled", OrderLink: "ORD-2024-002", Email: "jane.smith@example.com", Name: "Jane Smith",
			Products: []OrderProduct{{Name: "Smartphone X", Quantity: 1}, {Name: "Phone Case", Quantity: 1}, {Name: "Screen Protector", Quantity: 2}}},
		{Date: "2024-01-18", Time: "16:45", Status: "processing", OrderLink: "ORD-2024-003", Email: "mike.wilson@example.com", Name: "Mike Wilson",
			Products: []OrderProduct{{Name: "Gaming Headset", Quantity: 1}}},
		{Date: "2024-01-17", Time: "11:20", Status: "fulfilled", OrderLink: "ORD-2024-004", Email: "sarah.johnson@example.com", Name: "Sarah Johnson",
			Products: []OrderProduct{{Name: "4K Monitor", Quantity: 1}, {Name: "HDMI Cable", Quantity: 1}}},
		{Date: "2024-01-16", Time: "13:00", Status: "cancelled", OrderLink: "ORD-2024-005", Email: "david.brown@example.com", Name: "David Brown",
			Products: []OrderProduct{{Name: "Mechanical Keyboard", Quantity: 1}, {Name: "Keycap Set", Quantity: 1}}},
	}
}

func SampleProducts() []*Product {
	return []*Product{
		{Name: "Wireless Headphones", SKU: "WH-001", Category: "Electronics", Stock: 45, LowStockThreshold: 10, Price: 129.99, Description: "Premium wireless headphones with noise cancellation"},
		{Name: "Smart Watch", SKU: "SW-002", Category: "Electronics", Stock: 5, LowStockThreshold: 10, Price: 299.99, Description: "Advanced fitness tracking smartwatch"},
		{Name: "Laptop Stand", SKU: "LS-003", Category: "Accessories", Stock: 23, LowStockThreshold: 5, Price: 49.99, Description: "Adjustable aluminum laptop stand"},
		{Name: "USB-C Cable", SKU: "UC-004", Category: "Cables", Stock: 0, LowStockThreshold: 15, Price: 19.99, Description: "High-speed USB-C charging cable"},
		{Name: "Bluetooth Speaker", SKU: "BS-005", Category: "Audio", Stock: 18, LowStockThreshold: 8, Price: 79.99, Description: "Portable waterproof Bluetooth speaker"},
		{Name: "Gaming Mouse", SKU: "GM-006", Category: "Electronics", Stock: 32, LowStockThreshold: 12, Price: 89.99, Description: "High-precision gaming mouse with RGB lighting"},
		{Name: "Phone Case", SKU: "PC-007", Category: "Accessories", Stock: 8, LowStockThreshold: 15, Price: 24.99, Description: "Protective phone case with drop protection"},
		{Name: "Wireless Charger", SKU: "WC-008", Category: "Electronics", Stock: 0, LowStockThreshold: 10, Price: 39.99, Description: "Fast wireless charging pad"},
	}
}

func SampleFeedback() []*Feedback {
	return []*Feedback{
		{Customer: "Sarah Johnson", Rating: 5, Comment: "Excellent service! Fast delivery and great product quality.", Product: "Wireless Headphones", Date: "2024-01-15", Status: "resolved", Helpful: 12},
		{Customer: "Mike Chen", Rating: 4, Comment: "Good product but shipping took longer than expected.", Product: "Smart Watch", Date: "2024-01-14", Status: "pending", Helpful: 8},
		{Customer: "Emily Davis", Rating: 5, Comment: "Amazing quality and customer support was very helpful!", Product: "Bluetooth Speaker", Date: "2024-01-13", Status: "resolved", Helpful: 15},
		{Customer: "John Smith", Rating: 3, Comment: "Product is okay but could be better for the price.", Product: "Laptop Stand", Date: "2024-01-12", Status: "pending", Helpful: 5},
		{Customer: "Lisa Wilson", Rating: 5, Comment: "Perfect! Exactly what I was looking for.", Product: "USB-C Cable", Date: "2024-01-11", Status: "resolved", Helpful: 9},
	}
}

func SampleIncidents() []*Incident {
	return []*Incident{
		{ErrorID: "ERR-1001", Title: "Payment gateway timeout", Description: "Checkout requests to the payment provider time out intermittently.",
			Severity: "critical", Status: "active", Category: "payment", Frequency: 42, AffectedUsers: 310,
			StackTrace: "TimeoutError: request exceeded 30s\n  at charge (payments.go:88)", IPAddress: "10.0.4.12"},
		{ErrorID: "ERR-1002", Title: "Slow order queries", Description: "Order list queries exceed 2s under load.",
			Severity: "high", Status: "investigating", Category: "database", Frequency: 120, AffectedUsers: 85},
		{ErrorID: "ERR-1003", Title: "Image upload failures", Description: "Product image uploads fail for files over 8MB.",
			Severity: "medium", Status: "monitoring", Category: "storage", Frequency: 17, AffectedUsers: 9,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"},
		{ErrorID: "ERR-1004", Title: "Stale rate-limit headers", Description: "API responses carry outdated rate-limit headers after a deploy.",
			Severity: "low", Status: "resolved", Category: "api", Frequency: 6, AffectedUsers: 2, ResolvedBy: "ops"},
		{ErrorID: "ERR-1005", Title: "Bounced receipt emails", Description: "Order receipt emails bounce for a subset of domains.",
			Severity: "medium", Status: "active", Category: "email", Frequency: 28, AffectedUsers: 54},
	}
}

// SeedOrders creates the sample orders if the collection is empty.
// Returns the number of rows inserted.
func (db *DB) SeedOrders() (int, error) {
	n, err := db.CountOrders()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, o := range SampleOrders() {
		if err := db.CreateOrder(o); err != nil {
			return 0, err
		}
	}
	return len(SampleOrders()), nil
}

// SeedProducts replaces the inventory with the sample set.
func (db *DB) SeedProducts() (int, error) {
	if err := db.DeleteAllProducts(); err != nil {
		return 0, err
	}
	samples := SampleProducts()
	for _, p := range samples {
		if err := db.CreateProduct(p); err != nil {
			return 0, err
		}
	}
	return len(samples), nil
}

func (db *DB) SeedCustomers() (int, error) {
	n, err := db.CountCustomers()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, c := range SampleCustomers() {
		if err := db.CreateCustomer(c); err != nil {
			return 0, err
		}
	}
	return len(SampleCustomers()), nil
}

func (db *DB) SeedFeedback() (int, error) {
	n, err := db.CountFeedback()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, f := range SampleFeedback() {
		if err := db.CreateFeedback(f); err != nil {
			return 0, err
		}
	}
	return len(SampleFeedback()), nil
}

func (db *DB) SeedIncidents() (int, error) {
	n, err := db.CountIncidents()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, in := range SampleIncidents() {
		if err := db.CreateIncident(in); err != nil {
			return 0, err
		}
	}
	return len(SampleIncidents()), nil
}

// SeedAll populates every empty collection with its sample fixture.
// Products are only seeded when empty here; the explicit sample-data
// endpoint is the reset path.
func (db *DB) SeedAll() error {
	if n, err := db.CountProducts(); err != nil {
		return fmt.Errorf("seed products: %w", err)
	} else if n == 0 {
		if _, err := db.SeedProducts(); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	seeds := []struct {
		name string
		fn   func() (int, error)
	}{
		{"customers", db.SeedCustomers},
		{"orders", db.SeedOrders},
		{"feedback", db.SeedFeedback},
		{"incidents", db.SeedIncidents},
	}
	for _, s := range seeds {
		n, err := s.fn()
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		if n > 0 {
			log.Printf("store: seeded %d %s", n, s.name)
		}
	}
	return nil
}
