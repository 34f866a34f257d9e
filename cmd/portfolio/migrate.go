package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/bootstrap"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/telemetry"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Run database migrations",
	Long:      "Applies the embedded goose migrations. With --seed, replaces the stored portfolio content with a content document after migrating up.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

var (
	migrateSeed        bool
	migrateContentFile string
)

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Replace portfolio content after migrating up")
	migrateCmd.Flags().StringVarP(&migrateContentFile, "content", "c", "", "Content document for --seed (default: CONTENT_FILE or the embedded default)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	command := "up"
	if len(args) == 1 {
		command = args[0]
	}
	if migrateSeed && command != "up" {
		return fmt.Errorf("--seed only applies to up")
	}

	cfg := config.Load()
	ctx := cmd.Context()

	sqlDB, err := bootstrap.OpenDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})

	if !migrateSeed {
		return nil
	}
	path := migrateContentFile
	if path == "" {
		path = cfg.ContentFile
	}
	content, err := bootstrap.LoadContent(path)
	if err != nil {
		return err
	}
	repo := &portfolio.PGRepo{DB: sqlDB}
	if err := repo.ReplaceContent(ctx, content); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	telemetry.Info("migrate.seeded", map[string]any{
		"languages": content.Languages(),
		"skills":    len(content.Skills),
	})
	return nil
}
