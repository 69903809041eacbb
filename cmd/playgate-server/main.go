package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playgate/internal/config"
	"playgate/internal/db"
	"playgate/internal/entitlement"
	"playgate/internal/httpapi"
	"playgate/internal/notify"
	"playgate/internal/playgate/service"
	"playgate/internal/playgate/store"
	filestore "playgate/internal/playgate/store/file"
	"playgate/internal/playgate/store/memory"
	"playgate/internal/playgate/store/postgres"
	sqlitestore "playgate/internal/playgate/store/sqlite"
	"playgate/internal/scan"
)

func main() {
	logger := log.New(os.Stdout, "playgate-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	playStore, cleanup, err := openPlayStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("store: %v", err)
	}
	defer cleanup()

	tokenKey, err := entitlement.ParsePublicKey(cfg.UserTokenPublicKey)
	if err != nil {
		logger.Fatalf("entitlement: %v", err)
	}

	gate := entitlement.NewGate(entitlement.Config{
		APIURL:         cfg.EntitlementAPIURL,
		APIKey:         cfg.EntitlementAPIKey,
		ProductIDs:     cfg.ProductIDs,
		TokenPublicKey: tokenKey,
		AdminSecret:    cfg.AdminSecret,
		CheckTimeout:   cfg.AccessCheckTimeout,
	}, logger)

	dispatcher := notify.NewDispatcher(notify.Config{
		APIURL:         cfg.EntitlementAPIURL,
		APIKey:         cfg.EntitlementAPIKey,
		ExperienceID:   cfg.ExperienceID,
		RequestTimeout: cfg.NotifyTimeout,
	})

	var scanner *scan.Client
	if cfg.ScanAPIKey != "" {
		scanner, err = scan.NewClient(scan.Config{
			APIURL:         cfg.ScanAPIURL,
			APIKey:         cfg.ScanAPIKey,
			Model:          cfg.ScanModel,
			RequestTimeout: cfg.ScanTimeout,
		})
		if err != nil {
			logger.Fatalf("scan: %v", err)
		}
	} else {
		logger.Printf("slip scanning disabled (no API key)")
	}

	plays := service.NewPlayService(playStore, dispatcher, logger)

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		Plays:   plays,
		Gate:    gate,
		Scanner: scanner,
	})

	go func() {
		logger.Printf("listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreBackend)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// openPlayStore builds the configured record store backend and returns a
// cleanup func releasing its resources.
func openPlayStore(ctx context.Context, cfg config.Config, logger *log.Logger) (store.PlayStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		st, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil

	case config.StoreFile:
		return filestore.NewPlayStore(cfg.PlayFilePath), func() {}, nil

	case config.StoreMemory:
		logger.Printf("memory store selected: plays will not survive restarts")
		return memory.NewPlayStore(), func() {}, nil

	default: // sqlite
		conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath})
		if err != nil {
			return nil, nil, err
		}
		writer := db.NewWorker(conn)
		st := sqlitestore.NewPlayStore(conn, writer)
		return st, func() {
			writer.Close()
			_ = conn.Close()
		}, nil
	}
}
