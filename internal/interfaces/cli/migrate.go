package cli

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/infrastructure/config"
	"github.com/merrysway/storefront/internal/infrastructure/migration"
)

// NewMigrateCommand creates the root command of the migration tool
func NewMigrateCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Storefront database migrations and catalog seeding",
		SilenceUsage: true,
	}
	addRootFlags(cmd, opts, "info")

	cmd.AddCommand(
		newMigrationCommand(opts, "up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Up() }),
		newMigrationCommand(opts, "down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string, _ *zap.Logger) error { return m.Down() }),
		newMigrationCommand(opts, "step <n>", "Apply n migrations (positive=up, negative=down)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string, _ *zap.Logger) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		newMigrationCommand(opts, "version", "Show the current migration version", cobra.NoArgs,
			func(m *migration.Migrator, _ []string, log *zap.Logger) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		newMigrationCommand(opts, "force <version>", "Force set the migration version (use with caution)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string, log *zap.Logger) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				log.Warn("Forcing migration version - use with caution!")
				return m.Force(version)
			}),
		newListCommand(),
		newSeedCommand(opts),
	)
	return cmd
}

type migrationFunc func(m *migration.Migrator, args []string, log *zap.Logger) error

func newMigrationCommand(opts *RootOptions, use, short string, args cobra.PositionalArgs, run migrationFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()
			return withMigrator(cfg, log, func(m *migration.Migrator) error {
				return run(m, args, log)
			})
		},
	}
}

// withMigrator opens the postgres database and runs fn with a migrator over it
func withMigrator(cfg *config.Config, log *zap.Logger, fn func(*migration.Migrator) error) error {
	if cfg.Database.Driver == "sqlite" {
		return fmt.Errorf("sql migrations target postgres; the sqlite schema is created by the server at startup")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migration.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No migrations found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, "  -", name)
			}
			return nil
		},
	}
}
