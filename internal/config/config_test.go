package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tallybook/backend/internal/config"
)

func TestDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/backup", cfg.BackupDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATA_DIR", "/var/lib/tallybook")

	cfg := config.Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "/var/lib/tallybook", cfg.DataDir)

	// The backup directory follows the data directory unless set explicitly.
	assert.Equal(t, "/var/lib/tallybook/backup", cfg.BackupDir)

	t.Setenv("BACKUP_DIR", "/mnt/backups")
	assert.Equal(t, "/mnt/backups", config.Load().BackupDir)
}
