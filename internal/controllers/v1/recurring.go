package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/httputil"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// RegisterRecurringRoutes registers the collection CRUD routes for the
// recurring transaction rules of one account book plus the explicit
// materialization operation. There is no background scheduler; clients
// trigger a run when they see fit.
func RegisterRecurringRoutes(r *gin.RouterGroup, store *storage.Store, service *ledger.Service) {
	RegisterListRoutes(r, store, storage.Recurring)

	r.OPTIONS("/run", httputil.OptionsPost)
	r.POST("/run", runRecurring(store, service))
}

// @Summary		Run recurring rules
// @Description	Materializes every due run of every enabled recurring rule into transactions, advancing each rule's next run time.
// @Tags			Recurring
// @Produce		json
// @Router			/v1/books/{bookId}/recurring/run [post]
func runRecurring(store *storage.Store, service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookID := c.Param("bookId")

		rules, err := storage.LoadList(store, storage.Recurring, bookID)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), listResponse[models.Transaction]{Error: &e})
			return
		}

		now := time.Now().In(time.UTC)
		created := []models.Transaction{}

		for i := range rules {
			if !rules[i].Enabled || rules[i].NextRun.IsZero() {
				continue
			}

			// A rule that was not run for several periods catches up one
			// transaction per missed run.
			for !rules[i].NextRun.After(now) {
				transaction, err := service.Add(bookID, rules[i].Transaction(bookID, rules[i].NextRun))
				if err != nil {
					e := err.Error()
					c.JSON(status(err), listResponse[models.Transaction]{Error: &e})
					return
				}

				created = append(created, transaction)
				rules[i].NextRun = rules[i].Advance(rules[i].NextRun)
			}

			if err := storage.UpdateRecord(store, storage.Recurring, bookID, rules[i]); err != nil {
				e := err.Error()
				c.JSON(status(err), listResponse[models.Transaction]{Error: &e})
				return
			}
		}

		c.JSON(http.StatusOK, newListResponse(created))
	}
}
