package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the postgres storage driver",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		migrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	l := newLogger()
	defer l.Sync()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	if !strings.EqualFold(strings.TrimSpace(config.Storage.Driver), storage.DriverPostgres) {
		l.Info("nothing to migrate", zap.String("driver", config.Storage.Driver))
		return
	}

	url, err := databaseURL(config.Storage)
	if err != nil {
		l.Fatal("loading database url", zap.Error(err),
			zap.String("hint", "set DATABASE_URL or storage.database-url-file in the configuration file"),
		)
	}

	db, err := storage.Connect(ctx, url, storage.DefaultOptions())
	if err != nil {
		l.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.RunMigrations(ctx, db); err != nil {
		l.Fatal("running migrations", zap.Error(err))
	}
	l.Info("migrations applied")
}
