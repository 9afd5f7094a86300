package storage

import "github.com/tallybook/backend/internal/models"

// The collection descriptors for every document the app persists, grouped
// the way the directories are laid out on disk.
var (
	Settings = Document[models.Settings]{Group: GroupConfig, Name: "settings", Default: models.DefaultSettings}
	AIConfig = Document[models.AIConfig]{Group: GroupConfig, Name: "ai-config", Default: models.DefaultAIConfig}

	Categories = List[models.Category]{Group: GroupConfig, Name: "categories"}
	Currencies = List[models.Currency]{Group: GroupConfig, Name: "currencies"}
	MatchRules = List[models.MatchRule]{Group: GroupConfig, Name: "match-rules"}

	Books    = List[models.AccountBook]{Group: GroupAccounts, Name: "account-books"}
	Accounts = List[models.Account]{Group: GroupAccounts, Name: "asset-accounts"}

	CurrentBook = Document[models.CurrentBook]{Group: GroupAccounts, Name: "current-book", Default: func() models.CurrentBook {
		return models.CurrentBook{}
	}}

	Transactions = List[models.Transaction]{Group: GroupRecords, Name: "transactions", Partitioned: true}
	Templates    = List[models.RecordTemplate]{Group: GroupRecords, Name: "templates", Partitioned: true}
	Recurring    = List[models.RecurringTransaction]{Group: GroupRecords, Name: "recurring-transactions", Partitioned: true}

	Budgets      = List[models.Budget]{Group: GroupBudget, Name: "budgets"}
	SavingsPlans = List[models.SavingsPlan]{Group: GroupSavings, Name: "savings-plans"}
	Reminders    = List[models.Reminder]{Group: GroupReminders, Name: "reminders"}
)
