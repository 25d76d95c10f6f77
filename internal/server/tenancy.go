package server

import (
	"time"

	"github.com/gin-gonic/gin"

	tenancydomain "github.com/roomledger/roomledger/internal/tenancy/domain"
)

const dateLayout = "2006-01-02"

func parseDatePtr(v *string) (*time.Time, bool) {
	if v == nil || *v == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, *v)
	if err != nil {
		return nil, false
	}
	return &t, true
}

type createTenancyRequest struct {
	PropertyID string   `json:"property_id"`
	TenantName string   `json:"tenant_name"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	FixedFee   *float64 `json:"fixed_fee"`
}

type updateTenancyRequest struct {
	TenantName *string  `json:"tenant_name"`
	StartDate  *string  `json:"start_date"`
	EndDate    *string  `json:"end_date"`
	FixedFee   *float64 `json:"fixed_fee"`
}

type endTenancyRequest struct {
	MoveOutDate string `json:"move_out_date"`
}

// @Summary      Create Tenancy
// @Description  Record a tenant's stay in a property
// @Tags         tenancies
// @Accept       json
// @Produce      json
// @Param        request body createTenancyRequest true "Create Tenancy Request"
// @Success      200  {object}  map[string]any
// @Router       /tenancies [post]
func (s *Server) CreateTenancy(c *gin.Context) {
	var req createTenancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	start, ok := parseDatePtr(req.StartDate)
	if !ok {
		invalidRequestError(c)
		return
	}
	end, ok := parseDatePtr(req.EndDate)
	if !ok {
		invalidRequestError(c)
		return
	}

	resp, err := s.tenancySvc.Create(c.Request.Context(), tenancydomain.CreateRequest{
		PropertyID: req.PropertyID,
		TenantName: req.TenantName,
		StartDate:  start,
		EndDate:    end,
		FixedFee:   req.FixedFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Tenancies
// @Tags         tenancies
// @Produce      json
// @Param        property_id    query  string  false  "Property filter"
// @Param        overlap_start  query  string  false  "Overlap window start (YYYY-MM-DD)"
// @Param        overlap_end    query  string  false  "Overlap window end (YYYY-MM-DD)"
// @Success      200  {object}  map[string]any
// @Router       /tenancies [get]
func (s *Server) ListTenancies(c *gin.Context) {
	var query tenancydomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.tenancySvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp.Tenancies)
}

// @Summary      Get Tenancy
// @Tags         tenancies
// @Produce      json
// @Param        id   path      string  true  "Tenancy ID"
// @Success      200  {object}  map[string]any
// @Router       /tenancies/{id} [get]
func (s *Server) GetTenancy(c *gin.Context) {
	resp, err := s.tenancySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Tenancy
// @Tags         tenancies
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Tenancy ID"
// @Success      200  {object}  map[string]any
// @Router       /tenancies/{id} [patch]
func (s *Server) UpdateTenancy(c *gin.Context) {
	var req updateTenancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	start, ok := parseDatePtr(req.StartDate)
	if !ok {
		invalidRequestError(c)
		return
	}
	end, ok := parseDatePtr(req.EndDate)
	if !ok {
		invalidRequestError(c)
		return
	}

	resp, err := s.tenancySvc.Update(c.Request.Context(), tenancydomain.UpdateRequest{
		ID:         c.Param("id"),
		TenantName: req.TenantName,
		StartDate:  start,
		EndDate:    end,
		FixedFee:   req.FixedFee,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      End Tenancy
// @Description  Close a stay by recording the move-out date
// @Tags         tenancies
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Tenancy ID"
// @Param        request body endTenancyRequest true "End Tenancy Request"
// @Success      200  {object}  map[string]any
// @Router       /tenancies/{id}/end [post]
func (s *Server) EndTenancy(c *gin.Context) {
	var req endTenancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	moveOut, err := time.Parse(dateLayout, req.MoveOutDate)
	if err != nil {
		invalidRequestError(c)
		return
	}

	resp, err := s.tenancySvc.End(c.Request.Context(), c.Param("id"), moveOut)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Tenancy
// @Tags         tenancies
// @Produce      json
// @Param        id   path      string  true  "Tenancy ID"
// @Success      200  {object}  map[string]any
// @Router       /tenancies/{id} [delete]
func (s *Server) DeleteTenancy(c *gin.Context) {
	if err := s.tenancySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}
