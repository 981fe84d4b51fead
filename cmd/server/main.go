package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"maze-daze/server/config"
	"maze-daze/server/handlers"
	"maze-daze/server/messages"
	"maze-daze/server/persistence"
	"maze-daze/server/services"
)

const (
	enemyTick       = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Server wires the routes to the game services
type Server struct {
	router  *way.Router
	world   *services.WorldService
	players *services.PlayerService
	clients *handlers.ClientManager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.SetupLogging(); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	db, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()
	log.WithField("type", cfg.DBType).Info("Persistence initialized successfully")

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world := services.NewWorldService(db, tuning, cfg.Seed)
	s := &Server{
		world:   world,
		players: services.NewPlayerService(world, db),
		clients: handlers.NewClientManager(),
	}
	world.OnChange(s.clients.SendUpdate)
	s.routes()

	go world.Run(ctx, enemyTick)

	if cfg.TuningFile != "" {
		watcher, err := config.NewTuningWatcher(cfg.TuningFile)
		if err != nil {
			log.WithError(err).Warn("Tuning hot reload disabled")
		} else {
			defer watcher.Close()
			go world.ApplyTuningUpdates(ctx, watcher.Updates)
			log.WithField("file", cfg.TuningFile).Info("Watching tuning file")
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	// websocket connections are hijacked, Shutdown does not wait for them
	s.clients.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypeNotice,
		Payload: messages.NoticeMessage{Message: "Server is shutting down, progress is being saved"},
	})
	s.clients.CloseAll()
	if !s.clients.Wait(shutdownTimeout) {
		log.Warn("Some connections did not finish saving")
	}
}

func openStorage(cfg *config.Config) (persistence.Storage, error) {
	switch cfg.DBType {
	case "postgres":
		return persistence.NewPostgresStore(cfg.DatabaseURL)
	case "sqlite":
		return persistence.NewSQLiteStore(cfg.SQLitePath)
	default:
		return persistence.NewJSONStore(cfg.DBFile)
	}
}
