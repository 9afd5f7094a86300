package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// RegisterAccountRoutes registers the routes for asset accounts. Balances
// are only writable through the explicit balance-set operation; everything
// else is kept consistent by the ledger engine.
func RegisterAccountRoutes(r *gin.RouterGroup, store *storage.Store, service *ledger.Service) {
	RegisterListRoutes(r, store, storage.Accounts)

	r.OPTIONS("/:id/balance", httputil.OptionsPut)
	r.PUT("/:id/balance", setAccountBalance(store))

	r.OPTIONS("/recompute", httputil.OptionsPost)
	r.POST("/recompute", recomputeBalances(service))
}

// BalanceRequest sets an account balance directly, e.g. during initial
// setup.
type BalanceRequest struct {
	// No required binding: zero is a valid balance to set.
	Balance decimal.Decimal `json:"balance"`
}

// @Summary		Set account balance
// @Description	Sets the account balance directly, bypassing the ledger. Intended for initial setup.
// @Tags			Accounts
// @Accept		json
// @Produce		json
// @Router			/v1/accounts/{id}/balance [put]
func setAccountBalance(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body BalanceRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.Account]{Error: &e})
			return
		}

		accounts, err := storage.LoadList(store, storage.Accounts, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.Account]{Error: &e})
			return
		}

		account, ok := storage.FindRecord(accounts, c.Param("id"))
		if !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[models.Account]{Error: &e})
			return
		}

		account.Balance = body.Balance
		if err := storage.UpdateRecord(store, storage.Accounts, "", account); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.Account]{Error: &e})
			return
		}

		c.JSON(http.StatusOK, newResponse(account))
	}
}

// @Summary		Recompute balances
// @Description	Rebuilds every account balance from the transaction ledgers of all books. Maintenance operation for recovering from an interrupted mutation.
// @Tags			Accounts
// @Produce		json
// @Router			/v1/accounts/recompute [post]
func recomputeBalances(service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RecomputeBalances(); err != nil {
			abortError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
