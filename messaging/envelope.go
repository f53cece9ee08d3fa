package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RawEnvelope is used for two-stage unmarshalling: first decode the envelope,
// then decode payload based on msg_type.
type RawEnvelope struct {
	MsgType   string          `json:"msg_type"`
	MsgID     string          `json:"msg_id"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// DecodeEnvelope unmarshals a raw message into a typed Envelope with the correct payload type.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var raw RawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	env := &Envelope{
		MsgType:   raw.MsgType,
		MsgID:     raw.MsgID,
		Source:    raw.Source,
		Timestamp: raw.Timestamp,
	}

	var payload any
	switch raw.MsgType {
	case TypeRecordUpdate:
		var p RecordUpdate
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode record_update payload: %w", err)
		}
		payload = p
	case TypeSeedCreated:
		var p SeedCreated
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode seed_created payload: %w", err)
		}
		payload = p
	case TypeStockUpdate:
		var p StockUpdate
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode stock_update payload: %w", err)
		}
		payload = p
	default:
		return nil, fmt.Errorf("unknown msg_type: %s", raw.MsgType)
	}
	env.Payload = payload
	return env, nil
}

// NewEnvelope creates an outbound envelope with a new UUID and timestamp.
func NewEnvelope(msgType, source string, payload any) *Envelope {
	return &Envelope{
		MsgType:   msgType,
		MsgID:     uuid.New().String(),
		Source:    source,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Encode marshals an envelope to JSON.
func (e *Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}
