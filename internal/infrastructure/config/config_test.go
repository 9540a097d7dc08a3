package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "hmp-north"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: true
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
rollcall:
  verification_seconds_per_occupant: 45
  minutes_per_stop: 3
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "hmp-north" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "hmp-north")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.RollCall.VerificationSecondsPerOccupant != 45 {
		t.Errorf("VerificationSecondsPerOccupant = %d, want 45", cfg.RollCall.VerificationSecondsPerOccupant)
	}
	if cfg.RollCall.MinutesPerStop != 3 {
		t.Errorf("MinutesPerStop = %d, want 3", cfg.RollCall.MinutesPerStop)
	}

	// Values absent from the file keep their defaults.
	if cfg.RollCall.AmberWindowMinutes != 10 {
		t.Errorf("AmberWindowMinutes = %d, want default 10", cfg.RollCall.AmberWindowMinutes)
	}
	if len(cfg.RollCall.LeafTypes) != 1 || cfg.RollCall.LeafTypes[0] != "cell" {
		t.Errorf("LeafTypes = %v, want [cell]", cfg.RollCall.LeafTypes)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
site:
  id: ""
database:
  path: "/tmp/test.db"
api:
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty site.id, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{name: "missing site ID", mutate: func(c *Config) { c.Site.ID = "" }, wantErr: true},
		{name: "unknown timezone", mutate: func(c *Config) { c.Site.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "facility timezone", mutate: func(c *Config) { c.Site.Timezone = "Europe/London" }, wantErr: false},
		{name: "empty timezone is UTC", mutate: func(c *Config) { c.Site.Timezone = "" }, wantErr: false},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: true},
		{name: "invalid port low", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
		{name: "invalid port high", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: true},
		{name: "negative verification allowance", mutate: func(c *Config) { c.RollCall.VerificationSecondsPerOccupant = -1 }, wantErr: true},
		{name: "negative minutes per stop", mutate: func(c *Config) { c.RollCall.MinutesPerStop = -5 }, wantErr: true},
		{name: "negative amber window", mutate: func(c *Config) { c.RollCall.AmberWindowMinutes = -1 }, wantErr: true},
		{name: "no leaf types", mutate: func(c *Config) { c.RollCall.LeafTypes = nil }, wantErr: true},
		{name: "priority max below base", mutate: func(c *Config) { c.RollCall.Priority.Max = 10 }, wantErr: true},
		{name: "influxdb enabled without bucket", mutate: func(c *Config) {
			c.InfluxDB.Enabled = true
			c.InfluxDB.Bucket = ""
		}, wantErr: true},
		{name: "influxdb enabled with defaults", mutate: func(c *Config) { c.InfluxDB.Enabled = true }, wantErr: false},
		{name: "zero minutes per stop allowed", mutate: func(c *Config) { c.RollCall.MinutesPerStop = 0 }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("ROLLCALL_DATABASE_PATH", "/custom/path.db")
	t.Setenv("ROLLCALL_MQTT_HOST", "mqtt.example.com")
	t.Setenv("ROLLCALL_MQTT_USERNAME", "testuser")
	t.Setenv("ROLLCALL_MQTT_PASSWORD", "testpass")
	t.Setenv("ROLLCALL_API_HOST", "192.168.1.1")
	t.Setenv("ROLLCALL_API_PORT", "9090")
	t.Setenv("ROLLCALL_INFLUXDB_TOKEN", "influx-secret")

	applyEnvOverrides(cfg)

	if cfg.InfluxDB.Token != "influx-secret" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "influx-secret")
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}
	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}
	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestApplyEnvOverrides_BadPortIgnored(t *testing.T) {
	cfg := defaultConfig()
	t.Setenv("ROLLCALL_API_PORT", "not-a-port")

	applyEnvOverrides(cfg)

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want unchanged 8080", cfg.API.Port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Site.ID == "" {
		t.Error("default config should have non-empty Site.ID")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.RollCall.VerificationSecondsPerOccupant != 30 {
		t.Errorf("VerificationSecondsPerOccupant = %d, want 30", cfg.RollCall.VerificationSecondsPerOccupant)
	}
	if cfg.RollCall.MinutesPerStop != 5 {
		t.Errorf("MinutesPerStop = %d, want 5", cfg.RollCall.MinutesPerStop)
	}
	if cfg.RollCall.Priority.ActivityBonus["healthcare"] != 10 {
		t.Errorf("healthcare bonus = %d, want 10", cfg.RollCall.Priority.ActivityBonus["healthcare"])
	}
}

func TestSiteConfig_Location(t *testing.T) {
	loc, err := SiteConfig{Timezone: "Europe/London"}.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	summer := time.Date(2026, 6, 2, 13, 30, 0, 0, time.UTC).In(loc)
	if got := summer.Format("15:04"); got != "14:30" {
		t.Errorf("13:30Z in %s = %s, want 14:30", loc, got)
	}

	if _, err := (SiteConfig{Timezone: "Mars/Olympus"}).Location(); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}
