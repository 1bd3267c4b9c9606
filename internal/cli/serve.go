package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quita-app/quita/internal/api"
	"github.com/quita-app/quita/internal/app/advisor"
	"github.com/quita-app/quita/internal/app/debts"
	"github.com/quita-app/quita/internal/app/finance"
	"github.com/quita-app/quita/internal/app/settlement"
	"github.com/quita-app/quita/internal/daemon"
	"github.com/quita-app/quita/internal/domain"
	"github.com/quita-app/quita/internal/infra/gemini"
	"github.com/quita-app/quita/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quita API server",
	Long:  `Start the HTTP API server backed by the local sqlite database.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Storage.Path, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	registry, err := finance.NewRegistry(db)
	if err != nil {
		return fmt.Errorf("load finance state: %w", err)
	}
	ledger, err := debts.NewLedger(db)
	if err != nil {
		return fmt.Errorf("load debts: %w", err)
	}
	engine := settlement.New(registry, ledger)

	var client domain.Advisor
	if cfg.Advisor.APIKey != "" {
		client = gemini.New(gemini.Options{
			APIKey:    cfg.Advisor.APIKey,
			Model:     cfg.Advisor.Model,
			ChatModel: cfg.Advisor.ChatModel,
			Timeout:   cfg.AdvisorTimeout(),
		})
	} else {
		log.Printf("serve: no Gemini API key configured, advice endpoints disabled (set QUITA_GEMINI_API_KEY or [advisor].api_key)")
	}
	adv := advisor.New(registry, ledger, client)
	if cfg.Advisor.HistoryLimit > 0 {
		adv.HistoryLimit = cfg.Advisor.HistoryLimit
	}

	srv := api.NewServer(registry, ledger, engine, adv)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serve: API listening on %s (db: %s)", cfg.Addr(), cfg.Storage.Path)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-sigCh:
		log.Printf("serve: received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
