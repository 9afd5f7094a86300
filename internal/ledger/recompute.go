package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// RecomputeBalances rebuilds every account balance from zero by folding the
// transactions of every book. It is a maintenance operation for recovering
// from an interrupted mutation and is never run implicitly.
func (s *Service) RecomputeBalances() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := storage.LoadList(s.store, storage.Accounts, "")
	if err != nil {
		return err
	}

	balances := make(map[string]decimal.Decimal, len(accounts))
	for _, account := range accounts {
		balances[account.ID] = decimal.Zero
	}

	books, err := s.store.Partitions()
	if err != nil {
		return err
	}

	for _, bookID := range books {
		transactions, err := storage.LoadList(s.store, storage.Transactions, bookID)
		if err != nil {
			return err
		}

		for _, transaction := range transactions {
			if balance, ok := balances[transaction.AccountID]; ok {
				switch transaction.Type {
				case models.TransactionTypeIncome:
					balances[transaction.AccountID] = balance.Add(transaction.Amount)
				case models.TransactionTypeExpense, models.TransactionTypeTransfer:
					balances[transaction.AccountID] = balance.Sub(transaction.Amount)
				}
			}

			if transaction.Type != models.TransactionTypeTransfer {
				continue
			}

			if balance, ok := balances[transaction.ToAccountID]; ok {
				balances[transaction.ToAccountID] = balance.Add(transaction.Amount)
			}
		}
	}

	for i := range accounts {
		accounts[i].Balance = balances[accounts[i].ID]
	}

	s.log.Info().Int("accounts", len(accounts)).Int("books", len(books)).Msg("recomputed account balances")
	return storage.SaveList(s.store, storage.Accounts, "", accounts)
}
