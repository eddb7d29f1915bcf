package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soubim/decisiond/internal/adapters/driven/auth"
	"github.com/soubim/decisiond/internal/adapters/driven/embedding/ollama"
	"github.com/soubim/decisiond/internal/adapters/driven/llm/anthropic"
	"github.com/soubim/decisiond/internal/adapters/driven/storage/sqlite"
	"github.com/soubim/decisiond/internal/adapters/driving/httpapi"
	"github.com/soubim/decisiond/internal/config"
	"github.com/soubim/decisiond/internal/connectors/google/drive"
	"github.com/soubim/decisiond/internal/connectors/google/gmail"
	"github.com/soubim/decisiond/internal/core/ports/driven"
	"github.com/soubim/decisiond/internal/core/services"
	"github.com/soubim/decisiond/internal/document"
	"github.com/soubim/decisiond/internal/extraction"
	"github.com/soubim/decisiond/internal/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion service",
	Long: `Starts the HTTP API, the mailbox and cloud-folder pollers, and the
extraction pipeline. Pollers only run for channels with credentials
configured.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Anthropic.APIKey == "" {
		return errors.New("anthropic api_key is required (set ANTHROPIC_API_KEY or [anthropic] api_key)")
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	log.Info("database ready", zap.String("path", store.Path()))

	completions, err := anthropic.NewCompletionService(anthropic.Config{
		APIKey:  cfg.Anthropic.APIKey,
		BaseURL: cfg.Anthropic.BaseURL,
		Model:   cfg.Anthropic.Model,
	})
	if err != nil {
		return fmt.Errorf("completion service: %w", err)
	}
	defer completions.Close()
	log.Info("completion service ready", zap.String("model", completions.ModelName()))

	var embeddings driven.EmbeddingService
	if cfg.Embedding.BaseURL != "" || cfg.Embedding.Model != "" {
		svc := ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		defer svc.Close()
		embeddings = svc
		log.Info("embedding service ready", zap.String("model", svc.ModelName()))
	} else {
		log.Info("embedding service not configured, records will not carry vectors")
	}

	summariser := services.NewSummariser(completions, log)
	dispatcher := extraction.NewDispatcher(completions, store.SourceStore(), log)
	enricher := services.NewEnricher(embeddings, log)
	pipeline := services.NewPipeline(
		store.SourceStore(),
		store.ItemStore(),
		store.ProjectStore(),
		store.ParticipantStore(),
		dispatcher,
		enricher,
		log,
	)
	ingestion := services.NewIngestion(store.SourceStore(), summariser, pipeline, log)

	scheduler := services.NewScheduler(log)

	if cfg.IsGmailConfigured() {
		provider, err := auth.NewGmailProvider(cfg.Gmail)
		if err != nil {
			return fmt.Errorf("gmail credentials: %w", err)
		}
		matcher := services.NewProjectMatcher(store.ProjectStore(), log)
		mailPoller := services.NewMailPoller(
			gmail.NewMailbox(provider),
			store.SourceStore(),
			matcher,
			summariser,
			cfg.Gmail.LabelFilter,
			cfg.Gmail.MaxResultsPerPoll,
			log,
		)
		scheduler.AddJob("gmail", cfg.Gmail.PollInterval.Std(), mailPoller.Poll)
	} else {
		log.Info("gmail polling disabled, no credentials configured")
	}

	if cfg.IsDriveConfigured() {
		provider, err := auth.NewDriveProvider(cfg.Drive)
		if err != nil {
			return fmt.Errorf("drive credentials: %w", err)
		}
		drivePoller := services.NewDrivePoller(
			drive.NewFolder(provider),
			store.SourceStore(),
			store.ProjectStore(),
			document.NewExtractor(),
			log,
		)
		scheduler.AddJob("drive", cfg.Drive.PollInterval.Std(), drivePoller.Poll)
	} else {
		log.Info("drive polling disabled, no credentials configured")
	}

	server, err := httpapi.NewServer(ingestion, log, &httpapi.Config{
		Host: cfg.HTTP.Host,
		Port: cfg.HTTP.Port,
	})
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	scheduler.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("http server failed", zap.Error(err))
		cancel()
		scheduler.Stop()
		return err
	}

	cancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
		return err
	}

	return nil
}
