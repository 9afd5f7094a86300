package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

type TestSuiteStandard struct {
	suite.Suite
	store *storage.Store
}

// Pseudo-Test run by go test that runs the test suite.
func TestSuite(t *testing.T) {
	suite.Run(t, new(TestSuiteStandard))
}

// SetupTest is called before each test in the suite.
func (suite *TestSuiteStandard) SetupTest() {
	store, err := storage.New(suite.T().TempDir(), zerolog.Nop())
	if err != nil {
		suite.Assert().FailNow("store could not be created", "Error: %s", err)
	}

	suite.store = store
}

func (suite *TestSuiteStandard) settingsPath() string {
	return filepath.Join(suite.store.Root(), "config", "settings.json")
}

func (suite *TestSuiteStandard) TestLoadDocumentDefault() {
	settings := storage.LoadDocument(suite.store, storage.Settings)
	suite.Assert().Equal(models.DefaultSettings(), settings)

	// The first read persists the default so the collection is self-healing.
	suite.Assert().FileExists(suite.settingsPath())

	again := storage.LoadDocument(suite.store, storage.Settings)
	suite.Assert().Equal(settings, again)
}

func (suite *TestSuiteStandard) TestLoadDocumentCorrupt() {
	err := os.WriteFile(suite.settingsPath(), []byte("{ not json"), 0o644)
	suite.Require().NoError(err)

	settings := storage.LoadDocument(suite.store, storage.Settings)
	suite.Assert().Equal(models.DefaultSettings(), settings, "a corrupt document must yield the default")

	// The corrupt document has been replaced with a valid one.
	settings = storage.LoadDocument(suite.store, storage.Settings)
	suite.Assert().Equal(models.DefaultSettings(), settings)
}

func (suite *TestSuiteStandard) TestLoadDocumentPartial() {
	// Unknown fields are ignored, missing fields get their default.
	doc := `{"baseCurrency": "EUR", "somethingElse": true}`
	suite.Require().NoError(os.WriteFile(suite.settingsPath(), []byte(doc), 0o644))

	settings := storage.LoadDocument(suite.store, storage.Settings)
	suite.Assert().Equal("EUR", settings.BaseCurrency)
	suite.Assert().Equal(models.DefaultSettings().BackupKeep, settings.BackupKeep)
	suite.Assert().Equal(models.DefaultSettings().FirstWeekday, settings.FirstWeekday)
}

func (suite *TestSuiteStandard) TestSaveDocument() {
	settings := models.DefaultSettings()
	settings.BaseCurrency = "CNY"
	suite.Require().NoError(storage.SaveDocument(suite.store, storage.Settings, settings))

	suite.Assert().Equal(settings, storage.LoadDocument(suite.store, storage.Settings))
}

func (suite *TestSuiteStandard) TestDocumentEmitsDefaults() {
	_ = storage.LoadDocument(suite.store, storage.Settings)

	data, err := os.ReadFile(suite.settingsPath())
	suite.Require().NoError(err)

	// Defaulted fields are written out explicitly for round-trip stability.
	suite.Assert().Contains(string(data), `"backupKeep"`)
	suite.Assert().Contains(string(data), `"firstWeekday"`)
}

func (suite *TestSuiteStandard) TestLoadListDefault() {
	categories, err := storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Assert().Empty(categories)

	suite.Assert().FileExists(filepath.Join(suite.store.Root(), "config", "categories.json"))
}

func (suite *TestSuiteStandard) TestAddUpdateRemoveRecord() {
	category := models.Category{Name: "Groceries", Kind: models.CategoryKindExpense}
	category.EnsureDefaults()

	suite.Require().NoError(storage.AddRecord(suite.store, storage.Categories, "", category))

	categories, err := storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Require().Len(categories, 1)
	suite.Assert().Equal("Groceries", categories[0].Name)

	category.Name = "Food"
	suite.Require().NoError(storage.UpdateRecord(suite.store, storage.Categories, "", category))

	categories, err = storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Require().Len(categories, 1)
	suite.Assert().Equal("Food", categories[0].Name)

	suite.Require().NoError(storage.RemoveRecord(suite.store, storage.Categories, "", category.ID))

	categories, err = storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Assert().Empty(categories)
}

func (suite *TestSuiteStandard) TestUpdateUnknownIDIsNoOp() {
	category := models.Category{Name: "Groceries"}
	category.EnsureDefaults()
	suite.Require().NoError(storage.AddRecord(suite.store, storage.Categories, "", category))

	ghost := models.Category{Name: "Ghost"}
	ghost.EnsureDefaults()
	suite.Assert().NoError(storage.UpdateRecord(suite.store, storage.Categories, "", ghost))
	suite.Assert().NoError(storage.RemoveRecord(suite.store, storage.Categories, "", "does-not-exist"))

	categories, err := storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Require().Len(categories, 1)
	suite.Assert().Equal("Groceries", categories[0].Name)
}

func (suite *TestSuiteStandard) TestPartitionRequired() {
	_, err := storage.LoadList(suite.store, storage.Transactions, "")
	suite.Assert().ErrorIs(err, storage.ErrPartitionRequired)

	err = storage.AddRecord(suite.store, storage.Transactions, "", models.Transaction{})
	suite.Assert().ErrorIs(err, storage.ErrPartitionRequired)
}

func (suite *TestSuiteStandard) TestPartitions() {
	transaction := models.Transaction{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(1)}
	transaction.EnsureDefaults()

	suite.Require().NoError(storage.AddRecord(suite.store, storage.Transactions, "book-1", transaction))
	suite.Require().NoError(storage.AddRecord(suite.store, storage.Transactions, "book-2", transaction))

	partitions, err := suite.store.Partitions()
	suite.Require().NoError(err)
	suite.Assert().ElementsMatch([]string{"book-1", "book-2"}, partitions)

	suite.Require().NoError(suite.store.RemovePartition("book-1"))

	partitions, err = suite.store.Partitions()
	suite.Require().NoError(err)
	suite.Assert().Equal([]string{"book-2"}, partitions)
}

func (suite *TestSuiteStandard) TestRoundTrip() {
	account := models.Account{
		Name:    "  Checking  ",
		Type:    models.AccountTypeDebit,
		Balance: decimal.RequireFromString("123.45"),
	}
	account.EnsureDefaults()

	suite.Require().NoError(storage.AddRecord(suite.store, storage.Accounts, "", account))

	accounts, err := storage.LoadList(suite.store, storage.Accounts, "")
	suite.Require().NoError(err)
	suite.Require().Len(accounts, 1)

	// Normalize trims the name on the way in.
	suite.Assert().Equal("Checking", accounts[0].Name)
	suite.Assert().Equal(account.ID, accounts[0].ID)
	suite.Assert().True(accounts[0].Balance.Equal(account.Balance), "balance changed in round-trip: %s", accounts[0].Balance)
	suite.Assert().True(account.CreatedAt.Equal(accounts[0].CreatedAt))
}

func (suite *TestSuiteStandard) TestCorruptListReplaced() {
	path := filepath.Join(suite.store.Root(), "config", "categories.json")
	suite.Require().NoError(os.WriteFile(path, []byte("###"), 0o644))

	categories, err := storage.LoadList(suite.store, storage.Categories, "")
	suite.Require().NoError(err)
	suite.Assert().Empty(categories)

	// The self-healed file decodes cleanly now.
	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Assert().Contains(string(data), `"items"`)
}
