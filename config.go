package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Upload     UploadConfig     `yaml:"upload"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	GeoIP      GeoIPConfig      `yaml:"geoip"`
}

// ServerConfig contains web server settings
type ServerConfig struct {
	Listen          string `yaml:"listen"`
	ReadBufferSize  int    `yaml:"read_buffer_size"`  // WebSocket read buffer in bytes (default: 65536)
	WriteBufferSize int    `yaml:"write_buffer_size"` // WebSocket write buffer in bytes (default: 8192)
}

// IngestConfig contains audio ingest settings
type IngestConfig struct {
	DataDir       string `yaml:"data_dir"`       // Base directory for received streams (default: data)
	RotateSeconds int    `yaml:"rotate_seconds"` // Segment rotation interval in seconds (default: 10)
}

// Upload provider identifiers
const (
	ProviderAWS          = "aws"
	ProviderS3Compatible = "s3compatible"
)

// UploadConfig contains object storage settings
type UploadConfig struct {
	Enabled         bool   `yaml:"enabled"`
	UploadBin       bool   `yaml:"upload_bin"`
	UploadWav       bool   `yaml:"upload_wav"`
	Prefix          string `yaml:"prefix"`   // Object key prefix (default: received)
	Provider        string `yaml:"provider"` // "aws" or "s3compatible"
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	ServiceURL      string `yaml:"service_url"`      // Endpoint override for s3compatible providers
	ForcePathStyle  bool   `yaml:"force_path_style"` // Path-style addressing for s3compatible providers
	CompressBin     bool   `yaml:"compress_bin"`     // zstd-compress .bin objects before upload
	AccessKeyID     string `yaml:"access_key_id"`    // Static credentials (empty = SDK default chain)
	SecretAccessKey string `yaml:"secret_access_key"`
}

// MQTTConfig contains MQTT publishing settings
type MQTTConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Broker             string        `yaml:"broker"` // e.g., "tcp://localhost:1883" or "ssl://broker:8883"
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	TopicPrefix        string        `yaml:"topic_prefix"`         // Default: "eed"
	MetricsIntervalSec int           `yaml:"metrics_interval_sec"` // Metrics snapshot interval (default: 60)
	TLS                MQTTTLSConfig `yaml:"tls"`
}

// MQTTTLSConfig contains TLS settings for the MQTT connection
type MQTTTLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

// PrometheusConfig contains metrics exposure settings
type PrometheusConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GeoIPConfig contains MaxMind database settings
type GeoIPConfig struct {
	DatabasePath string `yaml:"database_path"` // Path to GeoLite2 mmdb file (empty = disabled)
}

// DefaultConfig returns a configuration with all defaults applied
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero values with defaults
func (c *Config) ApplyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = 65536
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = 8192
	}
	if c.Ingest.DataDir == "" {
		c.Ingest.DataDir = "data"
	}
	if c.Ingest.RotateSeconds == 0 {
		c.Ingest.RotateSeconds = 10
	}
	if c.Upload.Prefix == "" {
		c.Upload.Prefix = "received"
	}
	if c.Upload.Provider == "" {
		c.Upload.Provider = ProviderAWS
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "eed"
	}
	if c.MQTT.MetricsIntervalSec == 0 {
		c.MQTT.MetricsIntervalSec = 60
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Ingest.RotateSeconds < 1 {
		return fmt.Errorf("ingest.rotate_seconds must be at least 1, got %d", c.Ingest.RotateSeconds)
	}
	if c.Upload.Enabled {
		if c.Upload.Provider != ProviderAWS && c.Upload.Provider != ProviderS3Compatible {
			return fmt.Errorf("upload.provider must be %q or %q, got %q", ProviderAWS, ProviderS3Compatible, c.Upload.Provider)
		}
		if c.Upload.Bucket == "" {
			return fmt.Errorf("upload.bucket is required when uploads are enabled")
		}
		if c.Upload.Provider == ProviderS3Compatible && c.Upload.ServiceURL == "" {
			return fmt.Errorf("upload.service_url is required for the s3compatible provider")
		}
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when MQTT is enabled")
	}
	return nil
}

// LoadConfig reads the YAML configuration from path. A missing file is not an
// error; the defaults describe a local-only ingest server.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
