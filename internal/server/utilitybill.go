package server

import (
	"github.com/gin-gonic/gin"

	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

// @Summary      Create Utility Bill
// @Description  Register a supplier invoice for a property's billing period
// @Tags         utility-bills
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateRequest true "Create Utility Bill Request"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills [post]
func (s *Server) CreateUtilityBill(c *gin.Context) {
	var req billdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.billSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Utility Bills
// @Tags         utility-bills
// @Produce      json
// @Param        property_id  query  string  false  "Property filter"
// @Param        status       query  string  false  "Status filter"
// @Param        supply       query  string  false  "Supply filter"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills [get]
func (s *Server) ListUtilityBills(c *gin.Context) {
	var query billdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.billSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp.Bills)
}

// @Summary      Get Utility Bill
// @Tags         utility-bills
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills/{id} [get]
func (s *Server) GetUtilityBill(c *gin.Context) {
	resp, err := s.billSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Utility Bill
// @Description  Amend a draft bill; calculated bills are immutable
// @Tags         utility-bills
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills/{id} [patch]
func (s *Server) UpdateUtilityBill(c *gin.Context) {
	var req billdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}
	req.ID = c.Param("id")

	resp, err := s.billSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Utility Bill
// @Tags         utility-bills
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills/{id} [delete]
func (s *Server) DeleteUtilityBill(c *gin.Context) {
	if err := s.billSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}

// @Summary      Calculate Utility Bill
// @Description  Prorate the bill across the property's tenancies and post the result
// @Tags         utility-bills
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  map[string]any
// @Router       /utility-bills/{id}/calculate [post]
func (s *Server) CalculateUtilityBill(c *gin.Context) {
	resp, err := s.billSvc.Calculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
