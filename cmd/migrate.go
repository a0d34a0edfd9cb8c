package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ferdian3456/brewlog/internal/config"
	"github.com/spf13/cobra"
)

var migrationNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or scaffold database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			zap, _ := config.NewZap()
			defer zap.Sync()
			koanf := config.NewKoanf(zap)
			if err := config.RequireKeys(koanf, "POSTGRES_URL"); err != nil {
				return err
			}
			return config.MigrateUp(koanf.String("POSTGRES_URL"), zap)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			zap, _ := config.NewZap()
			defer zap.Sync()
			koanf := config.NewKoanf(zap)
			if err := config.RequireKeys(koanf, "POSTGRES_URL"); err != nil {
				return err
			}
			return config.MigrateDown(koanf.String("POSTGRES_URL"), steps, zap)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	var dir string
	newCmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create the next numbered up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			up, down, err := createMigration(dir, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\ncreated %s\n", up, down)
			return nil
		},
	}
	newCmd.Flags().StringVar(&dir, "dir", "db/migrations", "migrations directory")

	migrateCmd.AddCommand(upCmd, downCmd, newCmd)
	return migrateCmd
}

// nextMigrationNumber returns one past the highest NNNNNN_ prefix in dir.
func nextMigrationNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) < 2 {
			continue
		}

		num, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		if num > highest {
			highest = num
		}
	}

	return highest + 1, nil
}

func createMigration(dir string, name string) (string, string, error) {
	if !migrationNamePattern.MatchString(name) {
		return "", "", fmt.Errorf("migration name %q must be snake_case", name)
	}

	next, err := nextMigrationNumber(dir)
	if err != nil {
		return "", "", fmt.Errorf("read migrations: %w", err)
	}

	base := fmt.Sprintf("%06d_%s", next, name)
	up := filepath.Join(dir, base+".up.sql")
	down := filepath.Join(dir, base+".down.sql")

	for _, path := range []string{up, down} {
		// #nosec G306 -- migrations are source files
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return "", "", fmt.Errorf("write %s: %w", path, err)
		}
	}

	return up, down, nil
}
