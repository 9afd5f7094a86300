package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// RegisterSavingsPlanRoutes registers the collection CRUD routes for
// savings plans plus the nested deposit operations.
func RegisterSavingsPlanRoutes(r *gin.RouterGroup, store *storage.Store) {
	RegisterListRoutes(r, store, storage.SavingsPlans)

	r.OPTIONS("/:id/deposits", httputil.OptionsPost)
	r.POST("/:id/deposits", addDeposit(store))

	r.OPTIONS("/:id/deposits/:depositId", httputil.OptionsDelete)
	r.DELETE("/:id/deposits/:depositId", removeDeposit(store))
}

// @Summary		Add deposit
// @Description	Adds a deposit to the savings plan
// @Tags			SavingsPlans
// @Accept		json
// @Produce		json
// @Router			/v1/savings-plans/{id}/deposits [post]
func addDeposit(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var deposit models.SavingsDeposit
		if err := c.ShouldBindJSON(&deposit); err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, response[models.SavingsPlan]{Error: &e})
			return
		}

		if !deposit.Amount.IsPositive() {
			e := models.ErrSavingsDepositNotPositive.Error()
			c.JSON(http.StatusBadRequest, response[models.SavingsPlan]{Error: &e})
			return
		}

		if deposit.ID == "" {
			deposit.ID = uuid.NewString()
		}
		if deposit.Date.IsZero() {
			deposit.Date = time.Now().In(time.UTC)
		}

		plans, err := storage.LoadList(store, storage.SavingsPlans, "")
		if err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.SavingsPlan]{Error: &e})
			return
		}

		plan, ok := storage.FindRecord(plans, c.Param("id"))
		if !ok {
			e := errRecordNotFound.Error()
			c.JSON(http.StatusNotFound, response[models.SavingsPlan]{Error: &e})
			return
		}

		plan.Deposits = append(plan.Deposits, deposit)
		if err := storage.UpdateRecord(store, storage.SavingsPlans, "", plan); err != nil {
			e := err.Error()
			c.JSON(status(err), response[models.SavingsPlan]{Error: &e})
			return
		}

		c.JSON(http.StatusCreated, newResponse(plan))
	}
}

// @Summary		Remove deposit
// @Description	Removes a deposit from the savings plan
// @Tags			SavingsPlans
// @Router			/v1/savings-plans/{id}/deposits/{depositId} [delete]
func removeDeposit(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := storage.LoadList(store, storage.SavingsPlans, "")
		if err != nil {
			abortError(c, err)
			return
		}

		plan, ok := storage.FindRecord(plans, c.Param("id"))
		if !ok {
			abortError(c, errRecordNotFound)
			return
		}

		deposits := make([]models.SavingsDeposit, 0, len(plan.Deposits))
		for _, deposit := range plan.Deposits {
			if deposit.ID != c.Param("depositId") {
				deposits = append(deposits, deposit)
			}
		}

		plan.Deposits = deposits
		if err := storage.UpdateRecord(store, storage.SavingsPlans, "", plan); err != nil {
			abortError(c, err)
			return
		}

		c.JSON(http.StatusOK, newResponse(plan))
	}
}
