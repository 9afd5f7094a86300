// Package ledger keeps account balances consistent with the transaction
// ledger: every transaction mutation applies a compensating balance effect
// to the affected accounts.
package ledger

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

var ErrTransactionNotFound = errors.New("there is no transaction with this ID")

// Service wraps the document store with the balance-consistent transaction
// mutations. All mutations must go through it; writing the transaction
// ledger directly leaves account balances stale.
type Service struct {
	store *storage.Store
	log   zerolog.Logger

	// mu serializes mutations so that the ledger write and the account
	// write of one operation never interleave with another operation.
	mu sync.Mutex
}

// New returns a ledger service on top of the given store.
func New(store *storage.Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

// Add persists the transaction into the book's ledger and applies its
// balance effect to the affected accounts.
//
// The account write happens after the ledger write. A crash between the two
// leaves the documented consistency window; RecomputeBalances repairs it.
func (s *Service) Add(bookID string, transaction models.Transaction) (models.Transaction, error) {
	transaction.Normalize()
	if err := transaction.Validate(); err != nil {
		return models.Transaction{}, err
	}

	transaction.EnsureDefaults()
	transaction.BookID = bookID

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := storage.AddRecord(s.store, storage.Transactions, bookID, transaction); err != nil {
		return models.Transaction{}, err
	}

	if err := s.applyEffect(transaction, 1); err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// Edit replaces the transaction with the same ID. The balance effect of the
// old transaction is rolled back before the new one is applied; the rollback
// must be computed from the old transaction's fields, so it is looked up
// before anything is written.
func (s *Service) Edit(bookID string, transaction models.Transaction) (models.Transaction, error) {
	transaction.Normalize()
	if err := transaction.Validate(); err != nil {
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transactions, err := storage.LoadList(s.store, storage.Transactions, bookID)
	if err != nil {
		return models.Transaction{}, err
	}

	old, ok := storage.FindRecord(transactions, transaction.ID)
	if !ok {
		return models.Transaction{}, ErrTransactionNotFound
	}

	// The identity of the transaction is immutable.
	transaction.BookID = bookID
	transaction.CreatedAt = old.CreatedAt

	if err := s.applyEffect(old, -1); err != nil {
		return models.Transaction{}, err
	}

	if err := storage.UpdateRecord(s.store, storage.Transactions, bookID, transaction); err != nil {
		return models.Transaction{}, err
	}

	if err := s.applyEffect(transaction, 1); err != nil {
		return models.Transaction{}, err
	}

	return transaction, nil
}

// Delete removes the transaction from the book's ledger and rolls back its
// balance effect.
func (s *Service) Delete(bookID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions, err := storage.LoadList(s.store, storage.Transactions, bookID)
	if err != nil {
		return err
	}

	transaction, ok := storage.FindRecord(transactions, id)
	if !ok {
		return ErrTransactionNotFound
	}

	if err := storage.RemoveRecord(s.store, storage.Transactions, bookID, id); err != nil {
		return err
	}

	return s.applyEffect(transaction, -1)
}

// applyEffect applies the balance delta of the transaction to the affected
// accounts, scaled by sign: +1 applies the transaction, -1 rolls it back.
//
// Accounts that cannot be resolved are skipped. A transfer whose target
// account does not exist only moves money out of the source account.
func (s *Service) applyEffect(transaction models.Transaction, sign int) error {
	accounts, err := storage.LoadList(s.store, storage.Accounts, "")
	if err != nil {
		return err
	}

	amount := transaction.Amount
	if sign < 0 {
		amount = amount.Neg()
	}

	changed := false
	for i := range accounts {
		// Source and target are checked independently so that a transfer
		// onto the same account nets out to zero.
		if accounts[i].ID == transaction.AccountID {
			switch transaction.Type {
			case models.TransactionTypeIncome:
				accounts[i].Balance = accounts[i].Balance.Add(amount)
			case models.TransactionTypeExpense, models.TransactionTypeTransfer:
				accounts[i].Balance = accounts[i].Balance.Sub(amount)
			}
			changed = true
		}

		if transaction.Type == models.TransactionTypeTransfer && accounts[i].ID == transaction.ToAccountID {
			accounts[i].Balance = accounts[i].Balance.Add(amount)
			changed = true
		}
	}

	if !changed {
		s.log.Debug().
			Str("transaction", transaction.ID).
			Str("account", transaction.AccountID).
			Msg("transaction references no existing account, no balance effect")
		return nil
	}

	return storage.SaveList(s.store, storage.Accounts, "", accounts)
}
