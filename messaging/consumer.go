package messaging

import (
	"log"
)

// InboundHandler is called for each decoded inbound message.
type InboundHandler interface {
	HandleStockUpdate(env *Envelope, upd StockUpdate)
	HandleRecordUpdate(env *Envelope, upd RecordUpdate)
}

// Consumer subscribes to the stock topic and routes messages to the handler.
type Consumer struct {
	client  *Client
	topic   string
	source  string
	handler InboundHandler
}

func NewConsumer(client *Client, topic, source string, handler InboundHandler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		source:  source,
		handler: handler,
	}
}

func (c *Consumer) Start() error {
	return c.client.Subscribe(c.topic, c.handleMessage)
}

func (c *Consumer) handleMessage(_ string, payload []byte) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		log.Printf("consumer: decode error: %v", err)
		return
	}
	// Skip our own echoes when publish and subscribe share a topic.
	if env.Source == c.source {
		return
	}

	switch p := env.Payload.(type) {
	case StockUpdate:
		c.handler.HandleStockUpdate(env, p)
	case RecordUpdate:
		c.handler.HandleRecordUpdate(env, p)
	case SeedCreated:
		// Informational only; nothing to apply locally.
	default:
		log.Printf("consumer: unhandled payload type: %T", p)
	}
}
