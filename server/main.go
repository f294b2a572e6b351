package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	staticDir := flag.String("static", "", "Path to client directory (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *staticDir != "" {
		cfg.StaticDir = *staticDir
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
	}

	layout, err := BuildLayout(cfg.Grid, cfg.Terrain)
	if err != nil {
		return err
	}

	analytics := NewAnalytics(db, log.Named("analytics"))
	defer analytics.Stop()

	world := NewWorld(layout, NewSpawnAllocator(uint64(time.Now().UnixNano())), analytics)

	var journal *Journal
	if cfg.JournalDir != "" {
		journal = NewJournal(cfg.JournalDir)
		defer journal.Close()
	}

	validator, err := NewMessageValidator()
	if err != nil {
		return err
	}

	roster := NewRoster()
	hub := NewHub(HubDeps{
		World:     world,
		Roster:    roster,
		Validator: validator,
		Auth:      NewAuth(db, cfg.Auth, log.Named("auth")),
		DB:        db,
		Analytics: analytics,
		Limits:    cfg.Limits,
		Log:       log.Named("hub"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	loop := NewLoop(world, cfg.TickInterval(), NewBroadcaster(roster, journal, log.Named("broadcast")), log.Named("loop"))
	go loop.Run(ctx)

	server := &http.Server{Addr: cfg.Addr, Handler: SetupRoutes(hub, cfg.StaticDir, cfg.PublicURL)}
	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", cfg.Addr, "static", cfg.StaticDir,
			"grid", fmt.Sprintf("%dx%d", layout.Columns, layout.Rows), "terrain", cfg.Terrain.Mode)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		stop()
		if err != nil {
			log.Errorw("listen", "err", err)
		}
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("http shutdown", "err", err)
	}
	<-loop.Done()
	return nil
}
