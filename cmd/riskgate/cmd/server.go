package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haldane/riskgate/internal/core/api"
	"github.com/haldane/riskgate/internal/core/config"
	"github.com/haldane/riskgate/internal/core/db"
	"github.com/haldane/riskgate/internal/core/metrics"
	"github.com/haldane/riskgate/internal/core/server"
	"github.com/haldane/riskgate/internal/draft"
	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/store"
)

const Version = "0.1.0"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP rules API service",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serverCmd.Flags().Int("port", 8080, "HTTP server port")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var migrationID string
	checkQuery := `SELECT migration_id FROM migrations WHERE migration_id = '001_initial_schema.sql'`
	err = database.Get(&migrationID, database.Rebind(checkQuery))
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("migration 001_initial_schema not applied - run 'riskgate migrate up' first")
		}
		return fmt.Errorf("failed to check migrations: %w", err)
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	st := store.New(database, queries, cfg.RuleCacheTTL)
	engine := rules.NewEngine(cfg.EvalWorkers)

	var gen draft.Generator
	if key := config.OpenAIKey(); key != "" {
		gen = draft.NewOpenAIGenerator(key, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	} else {
		log.Warn().Msg("RG_OPENAI_API_KEY not set, draft generation disabled")
	}

	service, err := api.NewRulesAPIService(database, st, engine, gen, cfg, metrics.New())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	httpServer, err := server.NewHTTPServer(cfg, service)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info().Str("version", Version).Str("host", cfg.Host).Int("port", cfg.Port).Msg("starting riskgate rules API")
	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Info().Msg("shutting down gracefully")
		return httpServer.Shutdown(ctx)
	}
}
