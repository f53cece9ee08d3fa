package messaging

import "time"

// Envelope wraps every message on the wire. Payload is typed after
// decode based on MsgType.
type Envelope struct {
	MsgType   string    `json:"msg_type"`
	MsgID     string    `json:"msg_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Message types.
const (
	TypeRecordUpdate = "record_update"
	TypeSeedCreated  = "seed_created"
	TypeStockUpdate  = "stock_update"
)

// RecordUpdate announces a single-field mutation on a dashboard record.
type RecordUpdate struct {
	Collection string `json:"collection"`
	RecordID   string `json:"record_id"`
	Field      string `json:"field"`
	Value      any    `json:"value"`
}

// SeedCreated announces that sample data was loaded into a collection.
type SeedCreated struct {
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// StockUpdate is an inbound warehouse adjustment: delta units for a SKU.
// Negative deltas never take stock below zero.
type StockUpdate struct {
	SKU    string `json:"sku"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}
