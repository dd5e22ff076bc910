package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/gem-thermo/internal/infrastructure/database/postgres"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// migrationStatus is printed by `migrate status`.
type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationStatus) TableHeaders() []string { return []string{"VERSION", "DIRTY"} }

func (s migrationStatus) TableRows() [][]string {
	return [][]string{{strconv.FormatUint(uint64(s.Version), 10), strconv.FormatBool(s.Dirty)}}
}

// NewMigrateCmd manages the schema of the cache run store.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema of the cache run store",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *postgres.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				PrintSuccess(cmd, "rolled back "+strconv.Itoa(steps)+" migration(s)")
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					return printStatus(cmd, m)
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					return printStatus(cmd, m)
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Record a schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.InvalidParam("version must be an integer").WithDetail(args[0])
				}
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					if err := m.Force(version); err != nil {
						return err
					}
					return printStatus(cmd, m)
				})
			},
		},
	)
	return cmd
}

func printStatus(cmd *cobra.Command, m *postgres.Migrator) error {
	version, dirty, err := m.Status()
	if err != nil {
		return err
	}
	return PrintResult(cmd, migrationStatus{Version: version, Dirty: dirty})
}

// withMigrator connects to the configured database and runs fn.  The
// database section does not have to be enabled for migrations to run.
func withMigrator(cmd *cobra.Command, fn func(*postgres.Migrator) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	dbCfg := cliCtx.Config.Database
	if dbCfg.User == "" || dbCfg.DBName == "" {
		return errors.InvalidConfig("database.user and database.db_name are required for migrations")
	}

	conn, err := postgres.NewConnection(dbCfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(conn, cliCtx.Logger)
	if err != nil {
		conn.Close()
		return err
	}
	defer m.Close()
	return fn(m)
}

//Personal.AI order the ending
