// Package config loads process configuration for the three services.
//
// Values come from built-in defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables. Later sources win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ServiceOrder     = "order-service"
	ServiceInventory = "inventory-service"
	ServicePayment   = "payment-service"
)

var defaultPorts = map[string]string{
	ServiceOrder:     "8081",
	ServiceInventory: "8082",
	ServicePayment:   "8083",
}

// Config is read once at process start and never mutated afterwards.
type Config struct {
	ServiceName string `yaml:"service_name"`
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"log_level"`

	InventoryURL string `yaml:"inventory_service_url"`
	PaymentURL   string `yaml:"payment_service_url"`

	// InjectLatency switches the payment processor into chaos mode.
	InjectLatency bool `yaml:"inject_latency"`

	// InventoryStock is a "sku=qty,sku=qty" table for the inventory stub.
	// Empty means every check passes.
	InventoryStock     string `yaml:"inventory_stock"`
	InventoryRejectAll bool   `yaml:"inventory_reject_all"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Environment  string `yaml:"environment"`

	// StepLogPath enables the SQLite step log when set.
	StepLogPath string `yaml:"step_log_path"`
	// RedisAddr enables the outcome tally when set.
	RedisAddr string `yaml:"redis_addr"`
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Default returns the built-in configuration for service.
func Default(service string) Config {
	port, ok := defaultPorts[service]
	if !ok {
		port = "8080"
	}
	return Config{
		ServiceName:  service,
		Port:         port,
		LogLevel:     "info",
		InventoryURL: "http://localhost:8082",
		PaymentURL:   "http://localhost:8083",
		OTLPEndpoint: "localhost:4317",
		Environment:  "local",
	}
}

// Load builds the configuration for service from defaults, the optional
// CONFIG_FILE and the environment.
func Load(service string) (Config, error) {
	return load(service, os.Getenv)
}

func load(service string, getenv func(string) string) (Config, error) {
	cfg := Default(service)

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	env := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	env("OTEL_SERVICE_NAME", &c.ServiceName)
	env("PORT", &c.Port)
	env("LOG_LEVEL", &c.LogLevel)
	env("INVENTORY_SERVICE_URL", &c.InventoryURL)
	env("PAYMENT_SERVICE_URL", &c.PaymentURL)
	env("INVENTORY_STOCK", &c.InventoryStock)
	env("OTEL_EXPORTER_OTLP_ENDPOINT", &c.OTLPEndpoint)
	env("DEPLOYMENT_ENV", &c.Environment)
	env("STEP_LOG_PATH", &c.StepLogPath)
	env("REDIS_ADDR", &c.RedisAddr)

	var err error
	if c.InjectLatency, err = envBool(getenv, "INJECT_LATENCY", c.InjectLatency); err != nil {
		return err
	}
	if c.InventoryRejectAll, err = envBool(getenv, "INVENTORY_REJECT_ALL", c.InventoryRejectAll); err != nil {
		return err
	}

	c.InventoryURL = strings.TrimRight(c.InventoryURL, "/")
	c.PaymentURL = strings.TrimRight(c.PaymentURL, "/")
	return nil
}

func envBool(getenv func(string) string, key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a boolean: %w", key, v, err)
	}
	return b, nil
}

// ParseStock parses a "sku=qty,sku=qty" table. An empty string yields a
// nil map.
func ParseStock(s string) (map[string]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	stock := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sku, qty, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("config: stock entry %q: want sku=qty", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: stock entry %q: invalid quantity", part)
		}
		stock[strings.TrimSpace(sku)] = n
	}
	return stock, nil
}
