package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_create_users_table.up.sql", "000001_create_users_table.down.sql", "000004_create_friendships_table.up.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	next, err := nextMigrationNumber(dir)
	require.NoError(t, err)
	assert.Equal(t, 5, next)

	up, down, err := createMigration(dir, "add_brew_tags")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "000005_add_brew_tags.up.sql"), up)
	assert.Equal(t, filepath.Join(dir, "000005_add_brew_tags.down.sql"), down)
	assert.FileExists(t, up)
	assert.FileExists(t, down)
}

func TestCreateMigrationRejectsBadName(t *testing.T) {
	_, _, err := createMigration(t.TempDir(), "Add Tags")
	assert.ErrorContains(t, err, "snake_case")
}

func TestRootCommands(t *testing.T) {
	migrateCmd := newMigrateCommand()
	names := []string{}
	for _, sub := range migrateCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "new"}, names)
	assert.Equal(t, "serve", newServeCommand().Name())
}
