package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshua-takyi/foodshare/internal/database"
)

func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the relational schema",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (defaults to DATABASE_URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := database.RunMigrations(databaseURL); err != nil {
					return err
				}
				cmd.Println("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("invalid steps %q: %w", args[0], err)
					}
					steps = n
				}
				if err := database.RollbackMigrations(databaseURL, steps); err != nil {
					return err
				}
				cmd.Printf("rolled back %d migration(s)\n", steps)
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := database.MigrationVersion(databaseURL)
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
