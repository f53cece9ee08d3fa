package messaging

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeEnvelope_RecordUpdate(t *testing.T) {
	data := []byte(`{
		"msg_type": "record_update",
		"msg_id": "abc-123",
		"source": "ordermate-core",
		"timestamp": "2026-08-20T12:00:00Z",
		"payload": {
			"collection": "customers",
			"record_id": "507f1f77bcf86cd799439011",
			"field": "status",
			"value": "vip"
		}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.MsgType != TypeRecordUpdate {
		t.Errorf("msg_type = %q, want %q", env.MsgType, TypeRecordUpdate)
	}
	if env.MsgID != "abc-123" {
		t.Errorf("msg_id = %q, want %q", env.MsgID, "abc-123")
	}
	if env.Source != "ordermate-core" {
		t.Errorf("source = %q, want %q", env.Source, "ordermate-core")
	}

	upd, ok := env.Payload.(RecordUpdate)
	if !ok {
		t.Fatalf("payload type = %T, want RecordUpdate", env.Payload)
	}
	if upd.Collection != "customers" {
		t.Errorf("collection = %q, want customers", upd.Collection)
	}
	if upd.RecordID != "507f1f77bcf86cd799439011" {
		t.Errorf("record_id = %q", upd.RecordID)
	}
	if upd.Field != "status" || upd.Value != "vip" {
		t.Errorf("patch = %s=%v, want status=vip", upd.Field, upd.Value)
	}
}

func TestDecodeEnvelope_StockUpdate(t *testing.T) {
	data := []byte(`{
		"msg_type": "stock_update",
		"msg_id": "msg-2",
		"source": "warehouse-1",
		"timestamp": "2026-08-20T12:00:00Z",
		"payload": {"sku": "WH-001", "delta": -3, "reason": "picked"}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	upd, ok := env.Payload.(StockUpdate)
	if !ok {
		t.Fatalf("payload type = %T, want StockUpdate", env.Payload)
	}
	if upd.SKU != "WH-001" {
		t.Errorf("sku = %q, want WH-001", upd.SKU)
	}
	if upd.Delta != -3 {
		t.Errorf("delta = %d, want -3", upd.Delta)
	}
	if upd.Reason != "picked" {
		t.Errorf("reason = %q, want picked", upd.Reason)
	}
}

func TestDecodeEnvelope_SeedCreated(t *testing.T) {
	data := []byte(`{
		"msg_type": "seed_created",
		"msg_id": "msg-3",
		"source": "ordermate-core",
		"timestamp": "2026-08-20T12:00:00Z",
		"payload": {"collection": "products", "count": 8}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	seed, ok := env.Payload.(SeedCreated)
	if !ok {
		t.Fatalf("payload type = %T, want SeedCreated", env.Payload)
	}
	if seed.Collection != "products" || seed.Count != 8 {
		t.Errorf("seed = %s/%d, want products/8", seed.Collection, seed.Count)
	}
}

func TestDecodeEnvelope_UnknownType(t *testing.T) {
	data := []byte(`{
		"msg_type": "bogus",
		"msg_id": "msg-x",
		"source": "somewhere",
		"timestamp": "2026-08-20T12:00:00Z",
		"payload": {}
	}`)

	_, err := DecodeEnvelope(data)
	if err == nil {
		t.Fatal("expected error for unknown msg_type")
	}
}

func TestDecodeEnvelope_InvalidJSON(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestDecodeEnvelope_InvalidPayload(t *testing.T) {
	data := []byte(`{
		"msg_type": "stock_update",
		"msg_id": "msg-y",
		"source": "warehouse-1",
		"timestamp": "2026-08-20T12:00:00Z",
		"payload": "not an object"
	}`)

	_, err := DecodeEnvelope(data)
	if err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestNewEnvelope(t *testing.T) {
	env := NewEnvelope(TypeRecordUpdate, "ordermate-core", RecordUpdate{
		Collection: "orders",
		RecordID:   "ORD-2024-001",
		Field:      "status",
		Value:      "shipped",
	})

	if env.MsgType != TypeRecordUpdate {
		t.Errorf("msg_type = %q", env.MsgType)
	}
	if env.Source != "ordermate-core" {
		t.Errorf("source = %q", env.Source)
	}
	if env.MsgID == "" {
		t.Error("msg_id should not be empty")
	}
	if env.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	original := NewEnvelope(TypeStockUpdate, "warehouse-2", StockUpdate{
		SKU:    "SW-002",
		Delta:  12,
		Reason: "restock",
	})

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.MsgType != original.MsgType {
		t.Errorf("msg_type = %q, want %q", decoded.MsgType, original.MsgType)
	}
	if decoded.MsgID != original.MsgID {
		t.Errorf("msg_id = %q, want %q", decoded.MsgID, original.MsgID)
	}

	upd, ok := decoded.Payload.(StockUpdate)
	if !ok {
		t.Fatalf("payload type = %T, want StockUpdate", decoded.Payload)
	}
	if upd.SKU != "SW-002" || upd.Delta != 12 {
		t.Errorf("stock update = %s/%d, want SW-002/12", upd.SKU, upd.Delta)
	}
}

func TestEnvelopeEncode(t *testing.T) {
	env := NewEnvelope(TypeSeedCreated, "ordermate-core", SeedCreated{
		Collection: "feedback",
		Count:      5,
	})

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal encoded: %v", err)
	}
	if decoded["msg_type"] != TypeSeedCreated {
		t.Errorf("msg_type = %v", decoded["msg_type"])
	}
	payload, ok := decoded["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload type = %T, want map", decoded["payload"])
	}
	if payload["collection"] != "feedback" {
		t.Errorf("collection = %v, want feedback", payload["collection"])
	}
}

func TestEnvelopeTimestampParsing(t *testing.T) {
	ts := "2026-08-20T12:30:45Z"
	data := []byte(`{
		"msg_type": "stock_update",
		"msg_id": "msg-ts",
		"source": "warehouse-1",
		"timestamp": "` + ts + `",
		"payload": {"sku": "WH-001", "delta": 1, "reason": "test"}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	expected, _ := time.Parse(time.RFC3339, ts)
	if !env.Timestamp.Equal(expected) {
		t.Errorf("timestamp = %v, want %v", env.Timestamp, expected)
	}
}
