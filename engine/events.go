package engine

const (
	EventRecordUpdated EventType = iota + 1
	EventRecordsRefreshed
	EventSeedCreated
	EventStockChanged
	EventMessagingConnected
	EventMessagingDisconnected
)

// --- Event payloads ---

type RecordUpdatedEvent struct {
	Collection string
	RecordID   string
	Field      string
	Value      any
	Actor      string
}

type RecordsRefreshedEvent struct {
	Collection string
	Count      int
}

type SeedCreatedEvent struct {
	Collection string
	Count      int
}

type StockChangedEvent struct {
	SKU      string
	Delta    int
	NewStock int
	Reason   string
}

type ConnectionEvent struct {
	Detail string
}
