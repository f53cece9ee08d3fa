package engine

import (
	"ordermate/messaging"
)

func (e *Engine) wireEventHandlers() {
	// Field mutations: announce on the updates topic and refresh the
	// collection's cached stats.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(RecordUpdatedEvent)
		e.enqueue(messaging.TypeRecordUpdate, messaging.RecordUpdate{
			Collection: ev.Collection,
			RecordID:   ev.RecordID,
			Field:      ev.Field,
			Value:      ev.Value,
		})
		if e.stats != nil {
			e.stats.Invalidate(ev.Collection)
		}
	}, EventRecordUpdated)

	// Seeding: announce and refresh.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(SeedCreatedEvent)
		e.logFn("engine: seeded %d %s", ev.Count, ev.Collection)
		e.enqueue(messaging.TypeSeedCreated, messaging.SeedCreated{
			Collection: ev.Collection,
			Count:      ev.Count,
		})
		if e.stats != nil {
			e.stats.Invalidate(ev.Collection)
		}
	}, EventSeedCreated)

	// Reloads only touch the cache; nothing changed upstream.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(RecordsRefreshedEvent)
		if e.stats != nil {
			e.stats.Invalidate(ev.Collection)
		}
	}, EventRecordsRefreshed)

	// Stock movements always dirty the products stats.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(StockChangedEvent)
		e.logFn("engine: stock %s %+d -> %d (%s)", ev.SKU, ev.Delta, ev.NewStock, ev.Reason)
		if e.stats != nil {
			e.stats.Invalidate("products")
		}
	}, EventStockChanged)
}

// enqueue stores an outbound envelope in the outbox; the drainer
// publishes it when the broker is reachable.
func (e *Engine) enqueue(msgType string, payload any) {
	if e.cfg.Messaging.Backend == "none" {
		return
	}
	env := messaging.NewEnvelope(msgType, e.cfg.Messaging.Source, payload)
	data, err := env.Encode()
	if err != nil {
		e.logFn("engine: encode %s: %v", msgType, err)
		return
	}
	if err := e.db.EnqueueOutbox(e.cfg.Messaging.UpdatesTopic, data, msgType, e.cfg.Messaging.Source); err != nil {
		e.logFn("engine: enqueue %s: %v", msgType, err)
	}
}

// --- messaging.InboundHandler ---

// HandleStockUpdate applies a warehouse stock adjustment to the product
// catalog and fans the result out on the bus.
func (e *Engine) HandleStockUpdate(env *messaging.Envelope, upd messaging.StockUpdate) {
	p, err := e.db.AdjustProductStockBySKU(upd.SKU, upd.Delta)
	if err != nil {
		e.logFn("engine: stock update %s from %s: %v", upd.SKU, env.Source, err)
		return
	}
	e.Events.EmitPayload(EventStockChanged, StockChangedEvent{
		SKU:      upd.SKU,
		Delta:    upd.Delta,
		NewStock: p.Stock,
		Reason:   upd.Reason,
	})
}

// HandleRecordUpdate applies a status change originating from another
// system. Only the status field is writable over the wire.
func (e *Engine) HandleRecordUpdate(env *messaging.Envelope, upd messaging.RecordUpdate) {
	if upd.Field != "status" {
		e.logFn("engine: ignoring remote update of %s.%s from %s", upd.Collection, upd.Field, env.Source)
		return
	}
	status, ok := upd.Value.(string)
	if !ok {
		e.logFn("engine: remote status for %s/%s is not a string", upd.Collection, upd.RecordID)
		return
	}

	var err error
	switch upd.Collection {
	case "customers":
		err = e.db.UpdateCustomerStatus(upd.RecordID, status)
	case "orders":
		err = e.db.UpdateOrderStatus(upd.RecordID, status)
	case "feedback":
		err = e.db.UpdateFeedbackStatus(upd.RecordID, status)
	case "incidents":
		err = e.db.UpdateIncidentStatus(upd.RecordID, status)
	default:
		e.logFn("engine: remote update for unknown collection %s", upd.Collection)
		return
	}
	if err != nil {
		e.logFn("engine: apply remote update %s/%s: %v", upd.Collection, upd.RecordID, err)
		return
	}
	if e.stats != nil {
		e.stats.Invalidate(upd.Collection)
	}
}
