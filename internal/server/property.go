package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	propertydomain "github.com/roomledger/roomledger/internal/property/domain"
)

type createPropertyRequest struct {
	Name               string                     `json:"name"`
	Address            string                     `json:"address"`
	BillingMode        propertydomain.BillingMode `json:"billing_mode"`
	FixedMonthlyAmount float64                    `json:"fixed_monthly_amount"`
	Metadata           map[string]any             `json:"metadata"`
}

// @Summary      Create Property
// @Description  Register a rentable unit and its billing configuration
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Idempotency Key"
// @Param        request body createPropertyRequest true "Create Property Request"
// @Success      200  {object}  map[string]any
// @Router       /properties [post]
func (s *Server) CreateProperty(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.propertySvc.Create(c.Request.Context(), propertydomain.CreateRequest{
		Name:               strings.TrimSpace(req.Name),
		Address:            req.Address,
		BillingMode:        req.BillingMode,
		FixedMonthlyAmount: req.FixedMonthlyAmount,
		Metadata:           req.Metadata,
		IdempotencyKey:     idempotencyKeyFromHeader(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Properties
// @Tags         properties
// @Produce      json
// @Param        name    query  string  false  "Name filter"
// @Param        active  query  bool    false  "Active filter"
// @Success      200  {object}  map[string]any
// @Router       /properties [get]
func (s *Server) ListProperties(c *gin.Context) {
	var query propertydomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.propertySvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp.Properties)
}

// @Summary      Get Property
// @Tags         properties
// @Produce      json
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  map[string]any
// @Router       /properties/{id} [get]
func (s *Server) GetProperty(c *gin.Context) {
	resp, err := s.propertySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  map[string]any
// @Router       /properties/{id} [patch]
func (s *Server) UpdateProperty(c *gin.Context) {
	var req propertydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}
	req.ID = c.Param("id")

	resp, err := s.propertySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Archive Property
// @Tags         properties
// @Produce      json
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  map[string]any
// @Router       /properties/{id}/archive [post]
func (s *Server) ArchiveProperty(c *gin.Context) {
	resp, err := s.propertySvc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
