package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "plugin:\n  container_id: player\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plugin.ContainerID != "player" {
		t.Errorf("container_id = %q", cfg.Plugin.ContainerID)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
	if cfg.Database.Path == "" {
		t.Errorf("database path default not applied")
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled {
		t.Errorf("optional integrations enabled by default")
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
plugin:
  container_id: wall
  width: 1280
  height: 720
  layout: 4
devices:
  - host: 10.0.0.5
    port: 80
    username: admin
    password: secret
mqtt:
  enabled: true
  host: broker.local
  port: 1883
  qos: 1
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Plugin.Layout != 4 || cfg.Plugin.Width != 1280 {
		t.Errorf("plugin = %+v", cfg.Plugin)
	}
	if len(cfg.Devices) != 1 || cfg.Devices[0].Host != "10.0.0.5" {
		t.Errorf("devices = %+v", cfg.Devices)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Host != "broker.local" {
		t.Errorf("mqtt = %+v", cfg.MQTT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load succeeded on a missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "relay without host",
			yaml:    "mqtt:\n  enabled: true\n  host: \"\"\n",
			wantErr: "mqtt.host",
		},
		{
			name:    "bad qos",
			yaml:    "mqtt:\n  enabled: true\n  qos: 3\n",
			wantErr: "mqtt.qos",
		},
		{
			name:    "telemetry without token",
			yaml:    "influxdb:\n  enabled: true\n  url: http://influx:8086\n",
			wantErr: "influxdb.token",
		},
		{
			name:    "device without username",
			yaml:    "devices:\n  - host: 10.0.0.5\n",
			wantErr: "devices[0].username",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CAMLINK_DATABASE_PATH", "/tmp/override.db")
	t.Setenv("CAMLINK_INFLUXDB_TOKEN", "secret-token")

	path := writeConfig(t, "influxdb:\n  enabled: true\n  url: http://influx:8086\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path override not applied: %q", cfg.Database.Path)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("influx token override not applied")
	}
}
