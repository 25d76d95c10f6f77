package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
	"github.com/roomledger/roomledger/internal/observability"
	"github.com/roomledger/roomledger/internal/proration"
	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
	quotadomain "github.com/roomledger/roomledger/internal/quota/domain"
	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

type apiError struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

var errorTable = []struct {
	err     error
	status  int
	message string
}{
	{proration.ErrInvalidAmount, http.StatusBadRequest, "fill in a positive invoice amount"},
	{proration.ErrInvalidPeriod, http.StatusBadRequest, "fill in both period dates"},
	{proration.ErrPeriodOrder, http.StatusBadRequest, "end date must be on or after the start date"},
	{proration.ErrInvalidMode, http.StatusBadRequest, "billing mode must be shared or fixed"},

	{propertydomain.ErrInvalidName, http.StatusBadRequest, "property name is required"},
	{propertydomain.ErrInvalidBillingMode, http.StatusBadRequest, "billing mode must be shared or fixed"},
	{propertydomain.ErrInvalidFixedAmount, http.StatusBadRequest, "fixed monthly amount must be positive"},
	{propertydomain.ErrInvalidID, http.StatusBadRequest, "invalid property id"},
	{propertydomain.ErrNotFound, http.StatusNotFound, "property not found"},

	{tenancydomain.ErrInvalidProperty, http.StatusBadRequest, "unknown property"},
	{tenancydomain.ErrInvalidID, http.StatusBadRequest, "invalid tenancy id"},
	{tenancydomain.ErrInvalidDateOrder, http.StatusBadRequest, "move-out date must be on or after the move-in date"},
	{tenancydomain.ErrNotFound, http.StatusNotFound, "tenancy not found"},

	{billdomain.ErrInvalidProperty, http.StatusBadRequest, "unknown property"},
	{billdomain.ErrInvalidSupply, http.StatusBadRequest, "unknown supply type"},
	{billdomain.ErrInvalidAmount, http.StatusBadRequest, "fill in a positive invoice amount"},
	{billdomain.ErrInvalidDate, http.StatusBadRequest, "dates must be ISO calendar dates (YYYY-MM-DD)"},
	{billdomain.ErrPeriodOrder, http.StatusBadRequest, "end date must be on or after the start date"},
	{billdomain.ErrInvalidID, http.StatusBadRequest, "invalid bill id"},
	{billdomain.ErrNotFound, http.StatusNotFound, "utility bill not found"},
	{billdomain.ErrBillNotDraft, http.StatusConflict, "bill already calculated; only draft bills can be edited"},

	{ledgerdomain.ErrInvalidSource, http.StatusBadRequest, "invalid ledger source"},
	{ledgerdomain.ErrUnbalancedEntry, http.StatusInternalServerError, "ledger entry did not balance"},
	{ledgerdomain.ErrUnknownAccount, http.StatusInternalServerError, "chart of accounts not seeded"},

	{quotadomain.ErrPropertyQuotaExceeded, http.StatusTooManyRequests, "property limit reached"},
	{quotadomain.ErrTenancyQuotaExceeded, http.StatusTooManyRequests, "tenancy limit reached"},
	{quotadomain.ErrCalculationQuotaExceeded, http.StatusTooManyRequests, "monthly calculation limit reached"},
}

// AbortWithError maps domain sentinel errors to HTTP responses. Anything
// unmapped is a 500 with the detail kept out of the response body.
func AbortWithError(c *gin.Context, err error) {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			c.AbortWithStatusJSON(entry.status, gin.H{"error": apiError{
				status:  entry.status,
				Code:    entry.err.Error(),
				Message: entry.message,
			}})
			return
		}
	}

	observability.FromContext(c.Request.Context()).Error("unhandled request error",
		zap.Error(err), zap.String("path", c.FullPath()))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apiError{
		Code:    "internal",
		Message: "internal error",
	}})
}

func invalidRequestError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": apiError{
		Code:    "invalid_request",
		Message: "malformed request body or query",
	}})
}
