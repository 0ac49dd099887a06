// CamLink Core - surveillance plugin control daemon
//
// This is the main entry point for the CamLink Core application. It exposes
// the legacy callback-oriented vendor plugin as a typed, event-driven
// service: devices from config.yaml are connected at startup, their streams
// tiled across the plugin's window layout, and all plugin, session and
// stream activity is relayed to MQTT and recorded in the audit trail.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenwick-labs/camlink-core/internal/audit"
	"github.com/fenwick-labs/camlink-core/internal/bridge"
	"github.com/fenwick-labs/camlink-core/internal/control"
	"github.com/fenwick-labs/camlink-core/internal/eventbus"
	"github.com/fenwick-labs/camlink-core/internal/host"
	"github.com/fenwick-labs/camlink-core/internal/infrastructure/config"
	"github.com/fenwick-labs/camlink-core/internal/infrastructure/database"
	"github.com/fenwick-labs/camlink-core/internal/infrastructure/logging"
	"github.com/fenwick-labs/camlink-core/internal/relay"
	"github.com/fenwick-labs/camlink-core/internal/sdk"
	"github.com/fenwick-labs/camlink-core/internal/session"
	"github.com/fenwick-labs/camlink-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup wiring: each integration adds a block
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting CamLink Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if schemaErr := db.EnsureSchema(ctx); schemaErr != nil {
		return fmt.Errorf("ensuring schema: %w", schemaErr)
	}

	// Event bus carries all plugin, session and stream events.
	bus := eventbus.New()

	// Audit trail records bus activity in SQLite.
	auditRepo := audit.NewSQLiteRepository(db.DB)
	detachAudit := audit.NewRecorder(auditRepo, log.With("component", "audit")).Attach(ctx, bus)
	defer detachAudit()

	// Connect to MQTT broker and relay bus events (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := relay.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			"client_id", cfg.MQTT.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// #nosec G115 -- QoS validated to [0,2] by config
		detachRelay := relay.New(mqttClient, byte(cfg.MQTT.QoS), log.With("component", "relay")).Attach(bus)
		defer detachRelay()
	} else {
		log.Info("MQTT relay disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *telemetry.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// The simulator stands in for the embedded vendor plugin: it exposes
	// the same callback method surface, seeded with the configured devices.
	handle := buildPluginHandle(cfg)

	b, err := bridge.New(handle)
	if err != nil {
		return fmt.Errorf("creating plugin bridge: %w", err)
	}

	// Plugin host: lifecycle and window state.
	h := host.New(b, bus)
	h.SetLogger(log.With("component", "host"))

	if initErr := h.Init(ctx, host.InitConfig{
		ContainerID: cfg.Plugin.ContainerID,
		Width:       cfg.Plugin.Width,
		Height:      cfg.Plugin.Height,
	}); initErr != nil {
		return fmt.Errorf("initialising plugin: %w", initErr)
	}
	log.Info("plugin initialised", "container_id", h.ContainerID())

	if cfg.Plugin.Layout > 1 {
		if layoutErr := h.ChangeLayout(cfg.Plugin.Layout); layoutErr != nil {
			return fmt.Errorf("setting window layout: %w", layoutErr)
		}
		log.Info("window layout set", "windows", cfg.Plugin.Layout)
	}

	// Session registry and feature façades.
	registry := session.NewRegistry(b, h, bus)
	registry.SetLogger(log.With("component", "session"))
	if influxClient != nil {
		registry.SetTracer(influxClient)
	}

	controller := control.NewController(b, h, registry, bus)

	// Connect configured devices and tile their streams across the layout.
	if connErr := connectDevices(ctx, cfg, registry, controller, log); connErr != nil {
		return connErr
	}
	if influxClient != nil {
		influxClient.RecordSessionCount(registry.Count())
	}

	// Verify all infrastructure connections are healthy
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: database: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Disconnect sessions before the deferred infrastructure teardown so
	// logout and window cleanup still reach the plugin and the audit trail.
	shutdownCtx := context.Background()
	for _, sess := range registry.Sessions() {
		if discErr := registry.Disconnect(shutdownCtx, sess.ID); discErr != nil {
			log.Warn("disconnect failed during shutdown", "device_id", sess.ID, "error", discErr)
		}
	}

	log.Info("CamLink Core stopped")
	return nil
}

// buildPluginHandle creates the plugin handle, seeded with the configured
// devices so startup logins succeed.
func buildPluginHandle(cfg *config.Config) sdk.Handle {
	sim := sdk.NewSimulator()
	for _, dev := range cfg.Devices {
		port := dev.Port
		if port == 0 {
			port = 80
			if dev.Protocol == session.ProtocolHTTPS {
				port = 443
			}
		}
		sim.AddDevice(sdk.SimDevice{
			Host:     dev.Host,
			Port:     port,
			Username: dev.Username,
			Password: dev.Password,
			Digital: []sdk.ChannelInfo{
				{ID: 1, Online: true},
			},
		})
	}
	return sim
}

// connectDevices logs in every configured device and starts a preview of its
// first online channel in the next free window. Individual device failures
// are logged, not fatal: one unreachable camera must not keep the daemon
// down.
func connectDevices(ctx context.Context, cfg *config.Config, registry *session.Registry, controller *control.Controller, log *logging.Logger) error {
	window := 0
	layout := cfg.Plugin.Layout
	if layout < 1 {
		layout = 1
	}

	for _, dev := range cfg.Devices {
		sess, err := registry.Connect(ctx, session.Credentials{
			Host:     dev.Host,
			Port:     dev.Port,
			Protocol: dev.Protocol,
			Username: dev.Username,
			Password: dev.Password,
		})
		if err != nil {
			log.Warn("device connect failed", "host", dev.Host, "error", err)
			continue
		}
		log.Info("device connected", "device_id", sess.ID)

		if window >= layout {
			continue
		}

		channels, err := registry.Channels(ctx, sess.ID)
		if err != nil || len(channels) == 0 {
			log.Warn("channel discovery failed", "device_id", sess.ID, "error", err)
			continue
		}
		for _, ch := range channels {
			if !ch.Online || ch.Zero {
				continue
			}
			if err := controller.StartPreview(ctx, sess.ID, ch.ID, window); err != nil {
				log.Warn("preview failed", "device_id", sess.ID, "channel", ch.ID, "error", err)
				break
			}
			log.Info("preview started", "device_id", sess.ID, "channel", ch.ID, "window", window)
			window++
			break
		}
	}
	return nil
}

// getConfigPath returns the configuration file path.
// Uses CAMLINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("CAMLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
