package engine

import (
	"context"
	"log"
	"time"

	"ordermate/config"
	"ordermate/messaging"
	"ordermate/statcache"
	"ordermate/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	Stats      *statcache.Manager
	MsgClient  *messaging.Client
	LogFunc    LogFunc
	Debug      bool
}

// Engine ties the record store, stat cache and messaging together. The
// web layer emits events on the bus; the engine turns them into outbox
// messages and cache refreshes, and feeds inbound broker traffic back
// into the store.
type Engine struct {
	cfg          *config.Config
	configPath   string
	db           *store.DB
	stats        *statcache.Manager
	msgClient    *messaging.Client
	drainer      *messaging.OutboxDrainer
	consumer     *messaging.Consumer
	Events       *EventBus
	logFn        LogFunc
	stopChan     chan struct{}
	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		stats:      c.Stats,
		msgClient:  c.MsgClient,
		Events:     NewEventBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() {
	e.wireEventHandlers()

	if e.msgClient != nil && e.cfg.Messaging.Backend != "none" {
		e.drainer = messaging.NewOutboxDrainer(e.db, e.msgClient, e.cfg.Messaging.OutboxDrainInterval)
		e.drainer.Start()

		e.consumer = messaging.NewConsumer(e.msgClient, e.cfg.Messaging.StockTopic, e.cfg.Messaging.Source, e)
		if err := e.consumer.Start(); err != nil {
			e.logFn("engine: stock consumer: %v", err)
		}
	}

	if e.stats != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			e.stats.SyncFromSources(ctx)
		}()
	}

	e.checkConnectionStatus()
	go e.connectionHealthLoop()

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	if e.drainer != nil {
		e.drainer.Stop()
	}
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB               { return e.db }
func (e *Engine) AppConfig() *config.Config   { return e.cfg }
func (e *Engine) ConfigPath() string          { return e.configPath }
func (e *Engine) Stats() *statcache.Manager   { return e.stats }
func (e *Engine) MsgClient() *messaging.Client { return e.msgClient }

func (e *Engine) checkConnectionStatus() {
	if e.msgClient == nil {
		return
	}
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.EmitPayload(EventMessagingConnected, ConnectionEvent{Detail: "messaging connected"})
		}
	} else {
		if e.msgConnected {
			e.msgConnected = false
			e.Events.EmitPayload(EventMessagingDisconnected, ConnectionEvent{Detail: "messaging disconnected"})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}

// ReconfigureMessaging reconnects messaging with current config.
func (e *Engine) ReconfigureMessaging() {
	if e.msgClient == nil {
		return
	}
	if err := e.msgClient.Reconfigure(&e.cfg.Messaging); err != nil {
		e.logFn("engine: messaging reconfigure error: %v", err)
	} else {
		e.logFn("engine: messaging reconfigured")
	}
	e.checkConnectionStatus()
}
