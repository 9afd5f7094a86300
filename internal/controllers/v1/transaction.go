package v1

import (
	"cmp"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for the transactions of
// one account book. All mutations go through the ledger engine so account
// balances stay consistent with the ledger.
func RegisterTransactionRoutes(r *gin.RouterGroup, store *storage.Store, service *ledger.Service) {
	r.OPTIONS("", httputil.OptionsGetPostPut)
	r.GET("", getTransactions(store))
	r.POST("", createTransaction(store, service))

	r.OPTIONS("/:id", httputil.OptionsGetPutDelete)
	r.GET("/:id", getRecord(store, storage.Transactions))
	r.PUT("/:id", updateTransaction(service))
	r.DELETE("/:id", deleteTransaction(service))
}

// TransactionQueryFilter are the supported filters for transaction lists.
type TransactionQueryFilter struct {
	Account   string    `form:"account"`
	Category  string    `form:"category"`
	Type      string    `form:"type"`
	FromDate  time.Time `form:"fromDate" time_format:"2006-01-02" time_utc:"1"`
	UntilDate time.Time `form:"untilDate" time_format:"2006-01-02" time_utc:"1"`
}

func (f TransactionQueryFilter) matches(t models.Transaction) bool {
	if f.Account != "" && t.AccountID != f.Account && t.ToAccountID != f.Account {
		return false
	}

	if f.Category != "" && t.CategoryID != f.Category {
		return false
	}

	if f.Type != "" && string(t.Type) != f.Type {
		return false
	}

	if !f.FromDate.IsZero() && t.Date.Before(f.FromDate) {
		return false
	}

	// The until date matches the whole day.
	if !f.UntilDate.IsZero() && !t.Date.Before(f.UntilDate.AddDate(0, 0, 1)) {
		return false
	}

	return true
}

// @Summary		List transactions
// @Description	Returns the transactions of the account book
// @Tags			Transactions
// @Produce		json
// @Param			account		query	string	false	"Filter by ID of associated account, source or target"
// @Param			category	query	string	false	"Filter by category ID"
// @Param			type		query	string	false	"Filter by transaction type"
// @Param			fromDate	query	string	false	"Transactions at and after this day"
// @Param			untilDate	query	string	false	"Transactions before and at this day"
// @Router			/v1/books/{bookId}/transactions [get]
func getTransactions(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter TransactionQueryFilter
		if err := c.Bind(&filter); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, listResponse[models.Transaction]{Error: &e})
			return
		}

		transactions, err := storage.LoadList(store, storage.Transactions, c.Param("bookId"))
		if err != nil {
			e := err.Error()
			c.JSON(status(err), listResponse[models.Transaction]{Error: &e})
			return
		}

		matching := make([]models.Transaction, 0, len(transactions))
		for _, transaction := range transactions {
			if filter.matches(transaction) {
				matching = append(matching, transaction)
			}
		}

		c.JSON(http.StatusOK, newListResponse(matching))
	}
}

// @Summary		Create transaction
// @Description	Adds a transaction to the account book's ledger and applies its balance effect
// @Tags			Transactions
// @Accept		json
// @Produce		json
// @Router			/v1/books/{bookId}/transactions [post]
func createTransaction(store *storage.Store, service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.Transaction]{Error: &e})
			return
		}

		if transaction.CategoryID == "" {
			transaction.CategoryID = matchCategory(store, transaction.Note)
		}

		created, err := service.Add(c.Param("bookId"), transaction)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.Transaction]{Error: &e})
			return
		}

		c.JSON(http.StatusCreated, newResponse(created))
	}
}

// @Summary		Update transaction
// @Description	Replaces the transaction; the old balance effect is rolled back and the new one applied
// @Tags			Transactions
// @Accept		json
// @Produce		json
// @Router			/v1/books/{bookId}/transactions/{id} [put]
func updateTransaction(service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.Transaction]{Error: &e})
			return
		}

		transaction.ID = c.Param("id")

		updated, err := service.Edit(c.Param("bookId"), transaction)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.Transaction]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(updated))
	}
}

// @Summary		Delete transaction
// @Description	Removes the transaction from the ledger and rolls back its balance effect
// @Tags			Transactions
// @Router			/v1/books/{bookId}/transactions/{id} [delete]
func deleteTransaction(service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.Delete(c.Param("bookId"), c.Param("id")); err != nil {
			abortError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// matchCategory returns the category of the first match rule whose glob
// pattern matches the note, checking rules in ascending priority order.
func matchCategory(store *storage.Store, note string) string {
	rules, err := storage.LoadList(store, storage.MatchRules, "")
	if err != nil || note == "" {
		return ""
	}

	slices.SortStableFunc(rules, func(a, b models.MatchRule) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	for _, rule := range rules {
		if glob.Glob(rule.Match, note) {
			return rule.CategoryID
		}
	}

	return ""
}
