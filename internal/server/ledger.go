package server

import (
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/roomledger/roomledger/internal/ledger/domain"
)

// @Summary      List Ledger Accounts
// @Description  Chart of accounts with running balances
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /ledger/accounts [get]
func (s *Server) ListLedgerAccounts(c *gin.Context) {
	resp, err := s.ledgerSvc.ListAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Ledger Entries
// @Tags         ledger
// @Produce      json
// @Param        source_type  query  string  false  "Source type filter"
// @Param        source_id    query  string  false  "Source ID filter"
// @Success      200  {object}  map[string]any
// @Router       /ledger/entries [get]
func (s *Server) ListLedgerEntries(c *gin.Context) {
	var query ledgerdomain.ListEntriesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.ledgerSvc.ListEntries(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
