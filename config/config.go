package config

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Web       WebConfig       `yaml:"web"`
	Messaging MessagingConfig `yaml:"messaging"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Seed      SeedConfig      `yaml:"seed"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// MessagingConfig selects the broker backend. Backend "none" disables
// messaging entirely; the server still runs, mutations just stay local.
type MessagingConfig struct {
	Backend             string        `yaml:"backend"` // kafka | mqtt | none
	Kafka               KafkaConfig   `yaml:"kafka"`
	MQTT                MQTTConfig    `yaml:"mqtt"`
	UpdatesTopic        string        `yaml:"updates_topic"`
	StockTopic          string        `yaml:"stock_topic"`
	OutboxDrainInterval time.Duration `yaml:"outbox_drain_interval"`
	Source              string        `yaml:"source"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
}

// GatewayConfig controls how list-view mutations are written back.
// Mode "local" skips the write-through entirely (demo mode); "remote"
// PATCHes an external system of record before updating local state;
// "store" writes to our own database.
type GatewayConfig struct {
	Mode    string        `yaml:"mode"` // store | remote | local
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SeedConfig struct {
	AutoSeed bool `yaml:"auto_seed"`
}

func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "ordermate.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "ordermate",
				User:     "ordermate",
				Password: "",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			Password: "",
			DB:       0,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8084,
		},
		Messaging: MessagingConfig{
			Backend: "none",
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "ordermate",
			},
			MQTT: MQTTConfig{
				Broker:   "localhost",
				Port:     1883,
				ClientID: "ordermate",
			},
			UpdatesTopic:        "ordermate.updates",
			StockTopic:          "ordermate.stock",
			OutboxDrainInterval: 5 * time.Second,
			Source:              "ordermate-core",
		},
		Gateway: GatewayConfig{
			Mode:    "store",
			BaseURL: "",
			Timeout: 10 * time.Second,
		},
		Seed: SeedConfig{
			AutoSeed: true,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Lock()   { c.mu.Lock() }
func (c *Config) Unlock() { c.mu.Unlock() }
