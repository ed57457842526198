package models

import "time"

// -----------------------------------------------------------------------------

// MConfig is the raw YAML layout of a relay configuration file.
type MConfig struct {
	Name      string `yaml:"name"`
	APIKeyEnv string `yaml:"api_key_env"`
	Region    string `yaml:"region"`
	Gateway   string `yaml:"gateway"`

	// health service
	GRPC_Host string `yaml:"grpc_host"`
	GRPC_Port int    `yaml:"grpc_port"`

	Logging MLoggingConfig   `yaml:"logging"`
	NATS    MNATSConfig      `yaml:"nats"`
	Streams []*MStreamConfig `yaml:"streams"`
}

// -----------------------------------------------------------------------------

// MLoggingConfig controls the logrus backend of the application logger.
type MLoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warning, error
	Format string `yaml:"format"` // json or text
	// File enables rotation through lumberjack when set; stderr otherwise.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// -----------------------------------------------------------------------------

// MNATSConfig holds the connection settings of the NATS publisher.
type MNATSConfig struct {
	Servers        []string          `yaml:"servers"`
	ClientID       string            `yaml:"client_id"`
	SubjectPrefix  string            `yaml:"subject_prefix"`
	Serializer     string            `yaml:"serializer"` // json (default) or gob
	ConnectTimeout time.Duration     `yaml:"connect_timeout"`
	ReconnectWait  time.Duration     `yaml:"reconnect_wait"`
	MaxReconnects  int               `yaml:"max_reconnects"`
	FlushTimeout   time.Duration     `yaml:"flush_timeout"`
	JetStream      *MJetStreamConfig `yaml:"jetstream"`
}

// -----------------------------------------------------------------------------

// MJetStreamConfig describes the JetStream stream created on connect.
type MJetStreamConfig struct {
	Enabled    bool          `yaml:"enabled"`
	StreamName string        `yaml:"stream_name"`
	Subjects   []string      `yaml:"subjects"`
	Replicas   int32         `yaml:"replicas"`
	MaxAge     time.Duration `yaml:"max_age"`
	MaxMsgs    int64         `yaml:"max_msgs"`
	MaxBytes   int64         `yaml:"max_bytes"`
	MaxMsgSize int64         `yaml:"max_msg_size"`
}

// -----------------------------------------------------------------------------

// MStreamConfig is one realtime subscription run by the relay.
type MStreamConfig struct {
	Name              string              `yaml:"name"`
	Type              MStreamType         `yaml:"type"`
	Instrument        MInstrumentCriteria `yaml:",inline"`
	Aggregate         string              `yaml:"aggregate"`
	ReconnectAttempts int                 `yaml:"reconnect_attempts"`
	ReconnectWait     time.Duration       `yaml:"reconnect_wait"`
}
