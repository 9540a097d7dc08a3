// Roll Call Core - headcount planning and status for custodial facilities.
//
// This is the main entry point. It wires the location hierarchy, schedules
// and roll-call store onto SQLite, serves the HTTP API, and when MQTT is
// enabled broadcasts treemap status and ingests verification outcomes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/rollcall-core/migrations"

	"github.com/nerrad567/rollcall-core/internal/api"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/database"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/logging"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/rollcall-core/internal/ingest"
	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/occupancy"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
	"github.com/nerrad567/rollcall-core/internal/routing"
	"github.com/nerrad567/rollcall-core/internal/schedule"
	"github.com/nerrad567/rollcall-core/internal/status"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// services groups the domain components built on top of storage.
type services struct {
	locations  location.Reader
	router     *routing.Router
	generator  *rollcall.Generator
	planner    *rollcall.Planner
	aggregator *status.Aggregator
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting Roll Call Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	svc := buildServices(cfg, db, log)
	health := map[string]api.HealthChecker{"database": db}

	var notifiers rollcall.Notifiers

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = connectMQTT(cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		health["mqtt"] = mqttClient

		broadcaster := status.NewBroadcaster(svc.aggregator, mqttClient)
		broadcaster.SetLogger(log)
		notifiers = append(notifiers, broadcaster)
	} else {
		log.Info("MQTT disabled, status broadcasting and verification ingest are off")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		health["influxdb"] = influxClient

		history := status.NewHistory(svc.aggregator, influxClient)
		history.SetLogger(log)
		notifiers = append(notifiers, history)
	} else {
		log.Info("InfluxDB disabled")
	}

	if len(notifiers) > 0 {
		svc.planner.SetNotifier(notifiers)
	}

	// Notifiers must be registered before ingest starts.
	if mqttClient != nil {
		listener := ingest.NewListener(svc.planner)
		listener.SetLogger(log)
		if startErr := listener.Start(ctx, mqttClient, byte(cfg.MQTT.QoS)); startErr != nil {
			return fmt.Errorf("starting verification listener: %w", startErr)
		}
		log.Info("verification listener started", "topic", mqtt.Topics{}.AllVerifications())
	}

	server, err := api.New(api.Deps{
		Config:     cfg.API,
		Logger:     log,
		Locations:  svc.locations,
		Router:     svc.router,
		Generator:  svc.generator,
		Planner:    svc.planner,
		Aggregator: svc.aggregator,
		Health:     health,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("Roll Call Core stopped")
	return nil
}

// buildServices wires the SQLite repositories into the domain components.
func buildServices(cfg *config.Config, db *database.DB, log *logging.Logger) *services {
	locations := location.NewSQLiteRepository(db.DB)
	schedules := schedule.NewSQLiteRepository(db.DB)
	rollCalls := rollcall.NewSQLiteRepository(db.DB)

	router := routing.NewRouter(locations)
	router.SetLogger(log)

	resolver := occupancy.NewResolver(locations, schedules, occupancy.NewPriorityPolicy(cfg.RollCall.Priority))
	// Validate has already rejected an unknown zone.
	if zone, err := cfg.Site.Location(); err == nil {
		resolver.SetTimezone(zone)
	}

	generator := rollcall.NewGenerator(locations, resolver, router, rollcall.NewPolicy(cfg.RollCall))
	generator.SetLogger(log)

	planner := rollcall.NewPlanner(generator, rollCalls)
	planner.SetLogger(log)

	aggregator := status.NewAggregator(locations, schedules, rollCalls, status.NewPolicy(cfg.RollCall))
	aggregator.SetLogger(log)

	return &services{
		locations:  locations,
		router:     router,
		generator:  generator,
		planner:    planner,
		aggregator: aggregator,
	}
}

// connectMQTT connects to the broker and hooks connection logging.
func connectMQTT(cfg *config.Config, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	return client, nil
}

// getConfigPath returns ROLLCALL_CONFIG when set, otherwise the default path.
func getConfigPath() string {
	if path := os.Getenv("ROLLCALL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
