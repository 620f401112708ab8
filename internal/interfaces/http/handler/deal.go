package handler

import (
	crmapp "github.com/formax/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// DealHandler handles deal pipeline endpoints
type DealHandler struct {
	BaseHandler
	dealService *crmapp.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(dealService *crmapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// Create godoc
// @Summary      Create deal
// @Description  Creates a deal directly, without a Pipedrive import
// @Tags         deals
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateDealRequest true "New deal"
// @Success      201 {object} dto.Response{data=crmapp.DealResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	var req crmapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	deal, err := h.dealService.CreateDeal(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deal)
}

// List godoc
// @Summary      List deals
// @Tags         deals
// @Produce      json
// @Success      200 {object} dto.Response{data=[]crmapp.DealResponse}
// @Router       /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	var filter crmapp.DealListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.dealService.ListDeals(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single deal
func (h *DealHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetDeal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Update modifies mutable deal fields
func (h *DealHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req crmapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	deal, err := h.dealService.UpdateDeal(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// MoveStage moves a deal through the pipeline
func (h *DealHandler) MoveStage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	var req crmapp.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	deal, err := h.dealService.MoveStage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Delete removes a deal that has no linked sessions
func (h *DealHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid deal ID")
		return
	}

	if err := h.dealService.DeleteDeal(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
