package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the panelbridge binaries.
type Config struct {
	// Push configures the push-notification delivery endpoint.
	Push PushConfig `yaml:"push"`
	// MQTT configures the optional event mirror. Empty broker disables it.
	MQTT MQTTConfig `yaml:"mqtt"`
	// Panel configures the panel interface source.
	Panel PanelConfig `yaml:"panel"`
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// PushConfig describes the push-notification service endpoint.
type PushConfig struct {
	// Host is the push service hostname.
	Host string `yaml:"host"`
	// Port is the TLS port of the push service.
	Port uint16 `yaml:"port"`
	// AccessToken is the opaque credential sent in the Access-Token header.
	// No format validation is performed.
	AccessToken string `yaml:"access_token"`
	// ResponseTimeout bounds the wait for the first response byte.
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// MQTTConfig describes the optional MQTT event mirror.
type MQTTConfig struct {
	// Broker is the broker URI, e.g. "tcp://broker.local:1883".
	Broker string `yaml:"broker"`
	// ClientID identifies this bridge to the broker.
	ClientID string `yaml:"client_id"`
	// Topic is the topic notification events are published to.
	Topic string `yaml:"topic"`
	// Username is an optional broker credential.
	Username string `yaml:"username"`
	// Password is an optional broker credential.
	Password string `yaml:"password"`
}

// PanelConfig describes where decoded panel frames come from.
type PanelConfig struct {
	// ScriptFile is the path to a replay script driving the simulated
	// panel interface.
	ScriptFile string `yaml:"script_file"`
}

const (
	// DefaultConfigFilename is the default filename for bridge settings.
	DefaultConfigFilename = "panelbridge-settings.yaml"

	// DefaultPushHost is the default push service hostname.
	DefaultPushHost = "api.pushbullet.com"

	// DefaultPushPort is the default TLS port of the push service.
	DefaultPushPort uint16 = 443

	// DefaultResponseTimeout is the default wall-clock bound on the
	// response wait of a delivery attempt.
	DefaultResponseTimeout = 3000 * time.Millisecond

	// DefaultMQTTClientID identifies the bridge when none is configured.
	DefaultMQTTClientID = "panelbridge"

	// DefaultMQTTTopic is the default topic for mirrored events.
	DefaultMQTTTopic = "panel/events"

	// DefaultFilePermissions is the file permission for written settings.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file carries the access token.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Push.Host == "" {
		cfg.Push.Host = DefaultPushHost
	}

	if cfg.Push.Port == 0 {
		cfg.Push.Port = DefaultPushPort
	}

	// The access token is not validated here: only the notifier needs it,
	// and it is treated as an opaque string either way.
	if cfg.Push.ResponseTimeout <= 0 {
		cfg.Push.ResponseTimeout = DefaultResponseTimeout
	}

	if cfg.MQTT.Broker == "" {
		return nil
	}

	if _, err := url.Parse(cfg.MQTT.Broker); err != nil {
		return fmt.Errorf("invalid MQTT broker URI: %w", err)
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultMQTTClientID
	}

	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = DefaultMQTTTopic
	}

	return nil
}
