package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"palava-proof/internal/config"
	"palava-proof/internal/infrastructure/database"
	"palava-proof/pkg/logger"
)

// app carries state shared by every command once flags are parsed
type app struct {
	configPath string
	cfg        *config.Config
	log        *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "palava",
		Short: "🛡️  Palava Proof - Liberia's community scam shield",
		Long: `palava checks SMS and WhatsApp messages for common scam patterns,
records scam reports while offline, and syncs them to the community
database when a connection is available.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("db", "", "path of the offline report database")

	root.AddCommand(
		a.checkCmd(),
		a.reportCmd(),
		a.recentCmd(),
		a.syncCmd(),
		a.patternsCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	v := config.New(a.configPath)
	if err := v.BindPFlag("logger.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("storage.sqlite_path", cmd.Flags().Lookup("db")); err != nil {
		return err
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// logs go to stderr so stdout stays clean for --json
	a.log = logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     "console",
		TimeFormat: "15:04:05",
		Output:     cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) openStore() (*database.SQLiteStore, error) {
	store, err := database.NewSQLiteStore(a.cfg.Storage.SQLitePath, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline store: %w", err)
	}
	return store, nil
}
