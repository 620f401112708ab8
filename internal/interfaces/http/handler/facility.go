package handler

import (
	resourceapp "github.com/formax/backend/internal/application/resource"
	"github.com/gin-gonic/gin"
)

// FacilityHandler handles room and mobile unit endpoints
type FacilityHandler struct {
	BaseHandler
	facilityService *resourceapp.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityService *resourceapp.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

// CreateRoom registers a bookable classroom
func (h *FacilityHandler) CreateRoom(c *gin.Context) {
	var req resourceapp.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	room, err := h.facilityService.CreateRoom(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, room)
}

// ListRooms returns rooms with optional filters
func (h *FacilityHandler) ListRooms(c *gin.Context) {
	var filter resourceapp.ResourceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.facilityService.ListRooms(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// SetRoomCapacity adjusts a room's seat capacity
func (h *FacilityHandler) SetRoomCapacity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	var req struct {
		Capacity int `json:"capacity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	room, err := h.facilityService.SetRoomCapacity(c.Request.Context(), id, req.Capacity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, room)
}

// DeactivateRoom takes a room out of scheduling
func (h *FacilityHandler) DeactivateRoom(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	if err := h.facilityService.DeactivateRoom(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateMobileUnit registers a mobile training unit
func (h *FacilityHandler) CreateMobileUnit(c *gin.Context) {
	var req resourceapp.CreateMobileUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.facilityService.CreateMobileUnit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, unit)
}

// ListMobileUnits returns mobile units with optional filters
func (h *FacilityHandler) ListMobileUnits(c *gin.Context) {
	var filter resourceapp.ResourceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.facilityService.ListMobileUnits(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeactivateMobileUnit takes a mobile unit out of scheduling
func (h *FacilityHandler) DeactivateMobileUnit(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid unit ID")
		return
	}

	if err := h.facilityService.DeactivateMobileUnit(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
