package config

import (
	"fmt"
	"os"
	"slices"

	"easykaiko/src/models"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIKeyEnv = "KAIKO_API_KEY"
	DefaultRegion    = "us"
	DefaultGateway   = "gateway-v0-grpc.kaiko.ovh:443"
	DefaultAggregate = "1m"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	return Parse(data)
}

// -----------------------------------------------------------------------------

// Parse decodes a YAML document, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation and checks NATS/Streams sub-configs.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config name cannot be empty")
	}

	// 0 disables the health service
	if c.GRPC_Port != 0 && (c.GRPC_Port <= 1024 || c.GRPC_Port > 65535) {
		return fmt.Errorf("invalid gRPC port number: %d (must be between 1025 and 65535)", c.GRPC_Port)
	}

	if len(c.Streams) == 0 {
		return fmt.Errorf("at least one stream must be configured")
	}
	seen := make(map[string]bool, len(c.Streams))
	for i, stream := range c.Streams {
		if stream == nil {
			return fmt.Errorf("stream %d: empty entry", i)
		}
		if stream.Name == "" {
			return fmt.Errorf("stream %d: name cannot be empty", i)
		}
		if seen[stream.Name] {
			return fmt.Errorf("stream '%s': duplicate name", stream.Name)
		}
		seen[stream.Name] = true

		if !slices.Contains(models.StreamTypes, stream.Type) {
			return fmt.Errorf("stream '%s': unknown type '%s'", stream.Name, stream.Type)
		}
		if stream.Instrument.Exchange == "" || stream.Instrument.InstrumentClass == "" || stream.Instrument.Code == "" {
			return fmt.Errorf("stream '%s': exchange, instrument_class and code are required", stream.Name)
		}
		if stream.Type == models.StreamTypeTrades && stream.Aggregate != "" {
			return fmt.Errorf("stream '%s': aggregate is not supported for trades", stream.Name)
		}
		if stream.ReconnectAttempts < 0 {
			return fmt.Errorf("stream '%s': reconnect_attempts cannot be negative", stream.Name)
		}
	}

	// Validation of NATS config (minimal check)
	if len(c.NATS.Servers) == 0 {
		return fmt.Errorf("NATS servers list cannot be empty")
	}
	if c.NATS.Serializer != "json" && c.NATS.Serializer != "gob" {
		return fmt.Errorf("unsupported NATS serializer '%s'", c.NATS.Serializer)
	}

	return nil
}

// -----------------------------------------------------------------------------

// APIKey reads the credential from the configured environment variable.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", c.APIKeyEnv)
	}
	return key, nil
}

// -----------------------------------------------------------------------------

// GetStreamByName returns a single stream configuration by name
func (c *Config) GetStreamByName(name string) *models.MStreamConfig {
	for _, stream := range c.Streams {
		if stream.Name == name {
			return stream
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// GetStreamsByType returns stream configurations by type
func (c *Config) GetStreamsByType(streamType models.MStreamType) []models.MStreamConfig {
	var result []models.MStreamConfig
	for _, stream := range c.Streams {
		if stream.Type == streamType {
			result = append(result, *stream)
		}
	}
	return result
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Gateway == "" {
		c.Gateway = DefaultGateway
	}
	if c.GRPC_Host == "" {
		c.GRPC_Host = "0.0.0.0"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.NATS.ClientID == "" {
		c.NATS.ClientID = c.Name
	}
	if c.NATS.Serializer == "" {
		c.NATS.Serializer = "json"
	}
	for _, stream := range c.Streams {
		if stream == nil {
			continue
		}
		if stream.Aggregate == "" && stream.Type != models.StreamTypeTrades {
			stream.Aggregate = DefaultAggregate
		}
	}
}
