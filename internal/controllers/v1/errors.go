package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybook/backend/internal/backup"
	"github.com/tallybook/backend/internal/ledger"
	"github.com/tallybook/backend/internal/models"
	"github.com/tallybook/backend/internal/storage"
)

// httpError is the response body for requests that failed without a
// resource-specific response type.
type httpError struct {
	Error string `json:"error"`
}

// The model validation errors, all reported as client errors.
var validationErrors = []error{
	models.ErrAccountTypeInvalid,
	models.ErrTransactionTypeInvalid,
	models.ErrTransactionAmountNotPositive,
	models.ErrTransferTargetMissing,
	models.ErrTransferTargetForbidden,
	models.ErrBookNameMissing,
	models.ErrBookDefaultDelete,
	models.ErrCategoryKindInvalid,
	models.ErrBudgetAmountNotPositive,
	models.ErrBudgetPeriodInvalid,
	models.ErrSavingsTargetNotPositive,
	models.ErrSavingsDepositNotPositive,
	models.ErrCurrencyCodeInvalid,
	models.ErrMatchRuleMatchMissing,
	models.ErrFrequencyInvalid,
}

// status maps an error to the HTTP status of the response reporting it.
func status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, backup.ErrInvalidArchive):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrPartitionRequired):
		return http.StatusBadRequest
	}

	for _, validationError := range validationErrors {
		if errors.Is(err, validationError) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

var errRecordNotFound = errors.New("there is no record with this ID")

// abortError writes an error response without a resource-specific type.
func abortError(c *gin.Context, err error) {
	c.JSON(status(err), httpError{Error: err.Error()})
}
