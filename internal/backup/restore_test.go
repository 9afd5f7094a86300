package backup

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybook/backend/internal/storage"
)

func writeTestDocument(t *testing.T, dataDir, rel, content string) {
	t.Helper()

	path := filepath.Join(dataDir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readTestDocument(t *testing.T, dataDir, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dataDir, rel))
	require.NoError(t, err)
	return string(data)
}

func writeTestArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	writer := zip.NewWriter(f)
	for name, content := range entries {
		target, err := writer.Create(name)
		require.NoError(t, err)

		_, err = target.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
}

func TestRestoreSwapFailureReinstatesLiveTree(t *testing.T) {
	dataDir := t.TempDir()
	writeTestDocument(t, dataDir, "config/settings.json", `{"baseCurrency":"USD"}`)
	writeTestDocument(t, dataDir, "accounts/asset-accounts.json", `{"items":[{"id":"a1"}]}`)

	engine, err := New(dataDir, filepath.Join(dataDir, "backup"), zerolog.Nop())
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "snapshot.zip")
	writeTestArchive(t, archive, map[string]string{
		"config/settings.json":         `{"baseCurrency":"EUR"}`,
		"accounts/asset-accounts.json": `{"items":[]}`,
	})

	// The second directory swap fails after the first already went through.
	calls := 0
	engine.renameDir = func(oldpath, newpath string) error {
		calls++
		if calls == 2 {
			return errors.New("rename: read-only file system")
		}

		return os.Rename(oldpath, newpath)
	}

	err = engine.Restore(archive)

	var restoreErr *RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.True(t, restoreErr.RolledBack)
	assert.NoError(t, restoreErr.RollbackErr)
	assert.Equal(t, storage.GroupAccounts, restoreErr.Group)
	require.NotEmpty(t, restoreErr.SafetyCopy)

	// The live tree is exactly the pre-restore state again, including the
	// group that was already swapped before the failure.
	assert.Equal(t, `{"baseCurrency":"USD"}`, readTestDocument(t, dataDir, "config/settings.json"))
	assert.Equal(t, `{"items":[{"id":"a1"}]}`, readTestDocument(t, dataDir, "accounts/asset-accounts.json"))

	// The safety copy stays on disk for manual inspection.
	assert.DirExists(t, restoreErr.SafetyCopy)
}

func TestRestoreRollbackRemovesSwappedInGroups(t *testing.T) {
	// Only the config group exists before the restore.
	dataDir := t.TempDir()
	writeTestDocument(t, dataDir, "config/settings.json", `{"baseCurrency":"USD"}`)

	engine, err := New(dataDir, filepath.Join(dataDir, "backup"), zerolog.Nop())
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "snapshot.zip")
	writeTestArchive(t, archive, map[string]string{
		"config/settings.json":       `{"baseCurrency":"EUR"}`,
		"budget/budgets.json":        `{"items":[{"id":"b1"}]}`,
		"savings/savings-plans.json": `{"items":[]}`,
	})

	// config and budget swap in, then the savings swap fails.
	calls := 0
	engine.renameDir = func(oldpath, newpath string) error {
		calls++
		if calls == 3 {
			return errors.New("rename: no space left on device")
		}

		return os.Rename(oldpath, newpath)
	}

	err = engine.Restore(archive)

	var restoreErr *RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.True(t, restoreErr.RolledBack)

	// The budget group did not exist before the restore, so the rollback
	// must remove the swapped-in copy instead of leaving it behind.
	assert.NoDirExists(t, filepath.Join(dataDir, storage.GroupBudget))
	assert.Equal(t, `{"baseCurrency":"USD"}`, readTestDocument(t, dataDir, "config/settings.json"))
}
