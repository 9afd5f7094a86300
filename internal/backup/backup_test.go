package backup_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/tallybook/backend/internal/backup"
	"github.com/tallybook/backend/internal/storage"
)

type TestSuiteStandard struct {
	suite.Suite
	dataDir   string
	backupDir string
	engine    *backup.Engine
}

// Pseudo-Test run by go test that runs the test suite.
func TestSuite(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

// SetupTest is called before each test in the suite.
func (suite *TestSuiteStandard) SetupTest() {
	suite.dataDir = suite.T().TempDir()
	suite.backupDir = filepath.Join(suite.dataDir, "backup")

	engine, err := backup.New(suite.dataDir, suite.backupDir, zerolog.Nop())
	if err != nil {
		suite.Assert().FailNow("backup engine could not be created", "Error: %s", err)
	}
	suite.engine = engine

	// A small but representative document tree.
	suite.writeDocument(filepath.Join(storage.GroupConfig, "settings.json"), `{"baseCurrency":"USD"}`)
	suite.writeDocument(filepath.Join(storage.GroupAccounts, "asset-accounts.json"), `{"items":[{"id":"a1","name":"Checking"}]}`)
	suite.writeDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json"), `{"items":[{"id":"t1","amount":"50"}]}`)
	suite.writeDocument(filepath.Join(storage.GroupBudget, "budgets.json"), `{"items":[]}`)
}

func (suite *TestSuiteStandard) writeDocument(rel, content string) {
	path := filepath.Join(suite.dataDir, rel)
	suite.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
}

func (suite *TestSuiteStandard) readDocument(rel string) string {
	data, err := os.ReadFile(filepath.Join(suite.dataDir, rel))
	suite.Require().NoError(err)
	return string(data)
}

func (suite *TestSuiteStandard) TestCreateAndList() {
	archive, err := suite.engine.Create()
	suite.Require().NoError(err)

	suite.Assert().FileExists(archive.Path)
	suite.Assert().Regexp(`^tallybook-backup-\d{8}-\d{6}\.zip$`, archive.Name)
	suite.Assert().Greater(archive.Size, int64(0))

	archives, err := suite.engine.List()
	suite.Require().NoError(err)
	suite.Require().Len(archives, 1)
	suite.Assert().Equal(archive.Name, archives[0].Name)
}

func (suite *TestSuiteStandard) TestListNewestFirst() {
	names := []string{
		"tallybook-backup-20260101-120000.zip",
		"tallybook-backup-20260301-120000.zip",
		"tallybook-backup-20260201-120000.zip",
	}
	for _, name := range names {
		suite.Require().NoError(os.WriteFile(filepath.Join(suite.backupDir, name), []byte("x"), 0o644))
	}

	// Files with unparseable names sort by their modification time.
	stray := filepath.Join(suite.backupDir, "manual.zip")
	suite.Require().NoError(os.WriteFile(stray, []byte("x"), 0o644))
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(os.Chtimes(stray, old, old))

	archives, err := suite.engine.List()
	suite.Require().NoError(err)
	suite.Require().Len(archives, 4)

	suite.Assert().Equal("tallybook-backup-20260301-120000.zip", archives[0].Name)
	suite.Assert().Equal("tallybook-backup-20260201-120000.zip", archives[1].Name)
	suite.Assert().Equal("tallybook-backup-20260101-120000.zip", archives[2].Name)
	suite.Assert().Equal("manual.zip", archives[3].Name)
}

func (suite *TestSuiteStandard) TestCleanOld() {
	for day := 1; day <= 8; day++ {
		name := time.Date(2026, 2, day, 12, 0, 0, 0, time.UTC).Format("tallybook-backup-20060102-150405.zip")
		suite.Require().NoError(os.WriteFile(filepath.Join(suite.backupDir, name), []byte("x"), 0o644))
	}

	suite.Require().NoError(suite.engine.CleanOld(5))

	archives, err := suite.engine.List()
	suite.Require().NoError(err)
	suite.Require().Len(archives, 5)

	// The five newest survive.
	suite.Assert().Equal("tallybook-backup-20260208-120000.zip", archives[0].Name)
	suite.Assert().Equal("tallybook-backup-20260204-120000.zip", archives[4].Name)
}

func (suite *TestSuiteStandard) TestExport() {
	destination := filepath.Join(suite.T().TempDir(), "exports")

	target, err := suite.engine.Export(destination)
	suite.Require().NoError(err)
	suite.Assert().FileExists(target)

	// The local archive is gone after a successful export.
	archives, err := suite.engine.List()
	suite.Require().NoError(err)
	suite.Assert().Empty(archives)
}

func (suite *TestSuiteStandard) TestRestoreRoundTrip() {
	archive, err := suite.engine.Create()
	suite.Require().NoError(err)

	suite.writeDocument(filepath.Join(storage.GroupConfig, "settings.json"), `{"baseCurrency":"EUR"}`)
	suite.writeDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json"), `{"items":[]}`)

	suite.Require().NoError(suite.engine.Restore(archive.Path))

	suite.Assert().Equal(`{"baseCurrency":"USD"}`, suite.readDocument(filepath.Join(storage.GroupConfig, "settings.json")))
	suite.Assert().Contains(suite.readDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json")), `"t1"`)

	// No safety copy or staging remnants are left behind on success.
	entries, err := os.ReadDir(suite.backupDir)
	suite.Require().NoError(err)
	for _, entry := range entries {
		suite.Assert().NotContains(entry.Name(), "pre-restore-")
	}
}

func (suite *TestSuiteStandard) TestRestoreIsAdditivePerGroup() {
	// Groups absent from the archive are left alone.
	path := filepath.Join(suite.T().TempDir(), "partial.zip")
	suite.createArchive(path, map[string]string{
		"config/settings.json": `{"baseCurrency":"JPY"}`,
		"budget/budgets.json":  `{"items":[{"id":"b1"}]}`,
	})

	recordsBefore := suite.readDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json"))

	suite.Require().NoError(suite.engine.Restore(path))

	suite.Assert().Equal(`{"baseCurrency":"JPY"}`, suite.readDocument(filepath.Join(storage.GroupConfig, "settings.json")))
	suite.Assert().Contains(suite.readDocument(filepath.Join(storage.GroupBudget, "budgets.json")), `"b1"`)
	suite.Assert().Equal(recordsBefore, suite.readDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json")))
	suite.Assert().FileExists(filepath.Join(suite.dataDir, storage.GroupAccounts, "asset-accounts.json"))
}

func (suite *TestSuiteStandard) TestRestoreRejectsInvalidArchive() {
	path := filepath.Join(suite.T().TempDir(), "unrelated.zip")
	suite.createArchive(path, map[string]string{
		"holiday-photos/beach.txt": "not a backup",
	})

	err := suite.engine.Restore(path)
	suite.Assert().ErrorIs(err, backup.ErrInvalidArchive)

	// The live tree is untouched.
	suite.Assert().Equal(`{"baseCurrency":"USD"}`, suite.readDocument(filepath.Join(storage.GroupConfig, "settings.json")))
	suite.Assert().Equal(`{"items":[{"id":"a1","name":"Checking"}]}`, suite.readDocument(filepath.Join(storage.GroupAccounts, "asset-accounts.json")))
	suite.Assert().Equal(`{"items":[{"id":"t1","amount":"50"}]}`, suite.readDocument(filepath.Join(storage.GroupRecords, "book-1", "transactions.json")))
	suite.Assert().NoDirExists(filepath.Join(suite.dataDir, "holiday-photos"))
}

func (suite *TestSuiteStandard) TestRestoreRejectsGarbage() {
	path := filepath.Join(suite.T().TempDir(), "garbage.zip")
	suite.Require().NoError(os.WriteFile(path, []byte("this is not a zip file"), 0o644))

	err := suite.engine.Restore(path)
	suite.Assert().ErrorIs(err, backup.ErrInvalidArchive)
}

func (suite *TestSuiteStandard) TestRestoreRejectsEscapingEntries() {
	path := filepath.Join(suite.T().TempDir(), "escape.zip")
	suite.createArchive(path, map[string]string{
		"../outside.txt": "escaped",
	})

	err := suite.engine.Restore(path)
	suite.Assert().ErrorIs(err, backup.ErrInvalidArchive)
}

// createArchive writes a zip with the given entries for a test.
func (suite *TestSuiteStandard) createArchive(path string, entries map[string]string) {
	f, err := os.Create(path)
	suite.Require().NoError(err)

	writer := zip.NewWriter(f)
	for name, content := range entries {
		target, err := writer.Create(name)
		suite.Require().NoError(err)

		_, err = target.Write([]byte(content))
		suite.Require().NoError(err)
	}

	suite.Require().NoError(writer.Close())
	suite.Require().NoError(f.Close())
}
