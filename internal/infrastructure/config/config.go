package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the roll-call core.
// Values come from defaults, then the YAML file, then environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	RollCall RollCallConfig `yaml:"rollcall"`
}

// SiteConfig identifies the facility this deployment serves.
// Timezone is an IANA zone name; schedule times are wall-clock times in it.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// Location loads the site timezone. An empty name is UTC.
func (s SiteConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("site.timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// Status broadcasting is skipped entirely when Enabled is false.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains settings for the optional status history sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"` // seconds
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings (seconds).
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// RollCallConfig holds the throughput assumptions used when planning and
// visualising roll calls. They differ between facilities, so none of them
// are hard-coded in the algorithms.
type RollCallConfig struct {
	// VerificationSecondsPerOccupant is added to the walking time for every
	// expected occupant when estimating a route's duration.
	VerificationSecondsPerOccupant int `yaml:"verification_seconds_per_occupant"`

	// MinutesPerStop spaces estimated arrivals along a route for status display.
	MinutesPerStop int `yaml:"minutes_per_stop"`

	// AmberWindowMinutes is the +/- window around an estimated arrival during
	// which a stop is reported as due.
	AmberWindowMinutes int `yaml:"amber_window_minutes"`

	// LeafTypes are the location types that hold occupants directly.
	LeafTypes []string `yaml:"leaf_types"`

	Priority PriorityConfig `yaml:"priority"`
}

// PriorityConfig controls occupant priority scoring.
type PriorityConfig struct {
	Base          int            `yaml:"base"`
	Max           int            `yaml:"max"`
	Bands         []PriorityBand `yaml:"bands"`
	ActivityBonus map[string]int `yaml:"activity_bonus"`
}

// PriorityBand adds Bonus when the next appointment starts in fewer than
// WithinMinutes minutes. Bands are checked in order; the first match wins.
type PriorityBand struct {
	WithinMinutes int `yaml:"within_minutes"`
	Bonus         int `yaml:"bonus"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern ROLLCALL_SECTION_KEY,
// for example ROLLCALL_DATABASE_PATH, ROLLCALL_API_PORT or ROLLCALL_INFLUXDB_TOKEN.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "site-001",
			Name:     "Roll Call",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/rollcall.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "rollcall-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			Org:           "rollcall",
			Bucket:        "rollcall",
			BatchSize:     100,
			FlushInterval: 10,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		RollCall: RollCallConfig{
			VerificationSecondsPerOccupant: 30,
			MinutesPerStop:                 5,
			AmberWindowMinutes:             10,
			LeafTypes:                      []string{"cell"},
			Priority: PriorityConfig{
				Base: 50,
				Max:  100,
				Bands: []PriorityBand{
					{WithinMinutes: 15, Bonus: 50},
					{WithinMinutes: 30, Bonus: 40},
					{WithinMinutes: 60, Bonus: 20},
				},
				ActivityBonus: map[string]int{
					"healthcare": 10,
					"visits":     5,
				},
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROLLCALL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("ROLLCALL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ROLLCALL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ROLLCALL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("ROLLCALL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("ROLLCALL_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("ROLLCALL_API_PORT"); v != "" {
		// Ignore unparsable values; Validate reports the resulting port.
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
}

// Validate checks the configuration for errors.
// Every problem is collected so the operator can fix them in one pass.
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if _, err := c.Site.Location(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	rc := c.RollCall
	if rc.VerificationSecondsPerOccupant < 0 {
		errs = append(errs, "rollcall.verification_seconds_per_occupant must not be negative")
	}
	if rc.MinutesPerStop < 0 {
		errs = append(errs, "rollcall.minutes_per_stop must not be negative")
	}
	if rc.AmberWindowMinutes < 0 {
		errs = append(errs, "rollcall.amber_window_minutes must not be negative")
	}
	if len(rc.LeafTypes) == 0 {
		errs = append(errs, "rollcall.leaf_types must list at least one location type")
	}
	if rc.Priority.Max < rc.Priority.Base {
		errs = append(errs, "rollcall.priority.max must be at least rollcall.priority.base")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
