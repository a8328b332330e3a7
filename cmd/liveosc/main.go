// LiveOSC Core - OSC bridge to a live music session.
//
// This is the main entry point for the LiveOSC Core application. It exposes
// a session host's transport, track, and clip state over OSC (UDP), with an
// HTTP/WebSocket mirror, an optional MQTT fan-out, and a SQLite journal of
// every emitted notification.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/liveosc/liveosc-core/migrations"

	"github.com/liveosc/liveosc-core/internal/api"
	"github.com/liveosc/liveosc-core/internal/bridge"
	"github.com/liveosc/liveosc-core/internal/infrastructure/config"
	"github.com/liveosc/liveosc-core/internal/infrastructure/database"
	"github.com/liveosc/liveosc-core/internal/infrastructure/logging"
	"github.com/liveosc/liveosc-core/internal/infrastructure/mqtt"
	"github.com/liveosc/liveosc-core/internal/journal"
	"github.com/liveosc/liveosc-core/internal/osc"
	"github.com/liveosc/liveosc-core/internal/session/sim"
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
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting LiveOSC Core",
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

	// Open database for the event journal
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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	rec := journal.New(db.DB)

	// Build the session host. The simulated host carries the full session
	// graph in process; a controller drives it over OSC exactly as it
	// would a real one.
	song := seedSession()
	log.Info("session host initialised")

	// Connect to MQTT broker (optional fan-out)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Wire the bridge: one router serves OSC, HTTP dispatch, and MQTT
	// commands; one emitter fans every notification out to all transports.
	router := bridge.NewRouter(log)

	oscServer := osc.NewServer(osc.Config{
		ListenHost: cfg.OSC.ListenHost,
		ListenPort: cfg.OSC.ListenPort,
		ReplyHost:  cfg.OSC.ReplyHost,
		ReplyPort:  cfg.OSC.ReplyPort,
	}, router, log)

	hub := api.NewHub(cfg.WebSocket, log)

	emit := buildEmitter(oscServer, hub, mqttClient, rec, log)
	listeners := bridge.NewListenerRegistry(emit, log)

	ctrl := bridge.NewSongController(song, router, listeners, log)
	ctrl.RegisterAPI()
	defer func() {
		log.Info("stopping listeners")
		ctrl.Close()
	}()
	log.Info("bridge surface registered", "addresses", len(router.Addresses()))

	// Start the OSC transport. The dispatcher binds the addresses
	// registered above, so this comes after RegisterAPI.
	if err := oscServer.Start(); err != nil {
		return fmt.Errorf("starting OSC server: %w", err)
	}
	log.Info("OSC server listening",
		"listen", fmt.Sprintf("%s:%d", cfg.OSC.ListenHost, cfg.OSC.ListenPort),
		"reply", fmt.Sprintf("%s:%d", cfg.OSC.ReplyHost, cfg.OSC.ReplyPort),
	)

	// MQTT command fan-in: liveosc/command/<address> dispatches through
	// the same router, replies go to liveosc/reply/<address>.
	if mqttClient != nil {
		if err := subscribeCommands(mqttClient, router, cfg.MQTT.QoS, log); err != nil {
			log.Warn("MQTT command subscription failed", "error", err)
		}
	}

	// Start the HTTP API and WebSocket mirror
	apiServer, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Router:      router,
		Snapshots:   bridge.NewSnapshotBuilder(song),
		Journal:     rec,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	// Verify connections are healthy
	if err := healthCheck(ctx, db, mqttClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Listener registry
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("LiveOSC Core stopped")
	return nil
}

// buildEmitter fans one notification out to every transport: the OSC reply
// endpoint, WebSocket clients, the MQTT event topic, and the journal.
func buildEmitter(oscServer *osc.Server, hub *api.Hub, mqttClient *mqtt.Client, rec *journal.Journal, log *logging.Logger) bridge.EmitFunc {
	return func(address string, args []any) {
		oscServer.Emit(address, args)
		hub.Broadcast(address, args)

		if mqttClient != nil && mqttClient.IsConnected() {
			if payload, err := json.Marshal(args); err == nil {
				topic := mqtt.Topics{}.Event(address)
				if pubErr := mqttClient.Publish(topic, payload, 0, false); pubErr != nil {
					log.Debug("MQTT event publish failed", "topic", topic, "error", pubErr)
				}
			}
		}

		source := journal.SourceListener
		if strings.HasSuffix(address, "/get/beat") {
			source = journal.SourceBeat
		}
		if err := rec.Record(context.Background(), address, args, source); err != nil {
			log.Warn("journal write failed", "address", address, "error", err)
		}
	}
}

// subscribeCommands routes MQTT command topics through the address router.
func subscribeCommands(client *mqtt.Client, router *bridge.Router, qos int, log *logging.Logger) error {
	topics := mqtt.Topics{}
	return client.Subscribe(topics.AllCommands(), byte(qos), func(topic string, payload []byte) error {
		address := topics.CommandAddress(topic)
		if address == "" {
			return fmt.Errorf("not a command topic: %s", topic)
		}

		var args []any
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &args); err != nil {
				return fmt.Errorf("decoding command payload: %w", err)
			}
		}

		results, err := router.Dispatch(address, args)
		if err != nil {
			reply, _ := json.Marshal(map[string]string{"error": err.Error()}) //nolint:errcheck // map of strings always marshals
			return client.Publish(topics.Reply(address), reply, byte(qos), false)
		}
		if len(results) == 0 {
			return nil
		}

		reply, err := json.Marshal(results)
		if err != nil {
			log.Warn("encoding command reply failed", "address", address, "error", err)
			return nil
		}
		return client.Publish(topics.Reply(address), reply, byte(qos), false)
	})
}

// seedSession builds the default simulated session: two scenes, a MIDI and
// an audio track, a seeded clip, and a pair of cue points to navigate.
func seedSession() *sim.Song {
	song := sim.NewSong()
	song.AddScene("Scene 1")
	song.AddScene("Scene 2")

	lead := song.AddMidiTrack("Lead")
	lead.AddClip(0, "Intro Riff", 4)
	lead.AddDevice("Operator", "Operator", 1)

	song.AddAudioTrack("Audio")

	song.AddCuePoint("Intro", 0)
	song.AddCuePoint("Drop", 32)

	return song
}

// getConfigPath returns the configuration file path.
// Uses the LIVEOSC_CONFIG environment variable if set, otherwise the default.
func getConfigPath() string {
	if path := os.Getenv("LIVEOSC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
