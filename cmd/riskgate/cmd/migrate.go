package cmd

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/haldane/riskgate/internal/core/config"
	"github.com/haldane/riskgate/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openDatabase resolves the connection URL from --db-url, falling back to
// config, and opens it.
func openDatabase() (*sqlx.DB, error) {
	url := dbURL
	if url == "" {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		url = cfg.DatabaseURL
	}
	return db.Open(url)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := db.MigrateUp(database); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("migrations up to date")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
			if st.AppliedAt != nil {
				state = fmt.Sprintf("applied %s (%dms)", st.AppliedAt.UTC().Format(time.RFC3339), st.ExecutionMs)
			}
		}
		fmt.Printf("%-32s %s\n", st.ID, state)
	}
	return nil
}
