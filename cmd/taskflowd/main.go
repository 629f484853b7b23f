// Command taskflowd runs the task ingestion and mutation API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/credential"
	"github.com/nhle/taskflow/internal/enrich"
	"github.com/nhle/taskflow/internal/ingest"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskflowd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	listenAddr := flag.String("listen", "", "listen address (overrides config)")
	setToken := flag.String("set-enrichment-token", "",
		"store the enrichment webhook token in the system keyring and exit")
	deleteToken := flag.Bool("delete-enrichment-token", false,
		"remove the enrichment webhook token from the system keyring and exit")
	flag.Parse()

	if *setToken != "" {
		return credential.Set(credential.EnrichmentTokenKey, *setToken)
	}
	if *deleteToken {
		return credential.Delete(credential.EnrichmentTokenKey)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	addr := cfg.Server.ListenAddr
	if *listenAddr != "" {
		addr = *listenAddr
	}

	s, err := store.NewSQLiteStore(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	enricher := enrich.New(cfg.Enrichment.WebhookURL, enrichmentToken(cfg), logger)
	if cfg.Enrichment.WebhookURL == "" {
		logger.Info("enrichment disabled: no webhook configured")
	}

	svc := ingest.New(s, enricher)
	server := api.NewServer(svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx, addr)
}

// enrichmentToken resolves the webhook bearer token: the system keyring
// wins, the config file is the fallback, and no token at all is fine.
func enrichmentToken(cfg *model.AppConfig) string {
	if token, err := credential.Get(credential.EnrichmentTokenKey); err == nil && token != "" {
		return token
	}
	return cfg.Enrichment.Token
}
