package server

import (
	"github.com/gin-gonic/gin"

	billdomain "github.com/roomledger/roomledger/internal/utilitybill/domain"
)

// @Summary      Preview Proration
// @Description  Run the proration engine on ad-hoc inputs without persisting anything
// @Tags         prorations
// @Accept       json
// @Produce      json
// @Param        request body domain.PreviewRequest true "Preview Request"
// @Success      200  {object}  map[string]any
// @Router       /prorations/preview [post]
func (s *Server) PreviewProration(c *gin.Context) {
	var req billdomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequestError(c)
		return
	}

	result, err := s.billSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}
