package engine

import (
	"testing"
)

func TestEventBusSubscribeAll(t *testing.T) {
	eb := NewEventBus()
	var got []EventType
	eb.Subscribe(func(evt Event) {
		got = append(got, evt.Type)
	})

	eb.EmitPayload(EventRecordUpdated, RecordUpdatedEvent{Collection: "customers"})
	eb.EmitPayload(EventStockChanged, StockChangedEvent{SKU: "WH-001"})

	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0] != EventRecordUpdated || got[1] != EventStockChanged {
		t.Errorf("events = %v", got)
	}
}

func TestEventBusTypeFilter(t *testing.T) {
	eb := NewEventBus()
	calls := 0
	eb.SubscribeTypes(func(evt Event) {
		calls++
		ev := evt.Payload.(SeedCreatedEvent)
		if ev.Collection != "products" {
			t.Errorf("collection = %q", ev.Collection)
		}
	}, EventSeedCreated)

	eb.EmitPayload(EventRecordUpdated, RecordUpdatedEvent{})
	eb.EmitPayload(EventSeedCreated, SeedCreatedEvent{Collection: "products", Count: 8})
	eb.EmitPayload(EventStockChanged, StockChangedEvent{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	eb := NewEventBus()
	calls := 0
	id := eb.Subscribe(func(Event) { calls++ })

	eb.EmitPayload(EventRecordUpdated, RecordUpdatedEvent{})
	eb.Unsubscribe(id)
	eb.EmitPayload(EventRecordUpdated, RecordUpdatedEvent{})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEventBusTimestampAssigned(t *testing.T) {
	eb := NewEventBus()
	eb.Subscribe(func(evt Event) {
		if evt.Timestamp.IsZero() {
			t.Error("timestamp should be assigned on emit")
		}
	})
	eb.EmitPayload(EventRecordsRefreshed, RecordsRefreshedEvent{Collection: "orders", Count: 5})
}
