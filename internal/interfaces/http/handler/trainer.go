package handler

import (
	"time"

	resourceapp "github.com/formax/backend/internal/application/resource"
	"github.com/gin-gonic/gin"
)

// TrainerHandler handles trainer and unavailability endpoints
type TrainerHandler struct {
	BaseHandler
	trainerService *resourceapp.TrainerService
}

// NewTrainerHandler creates a new trainer handler
func NewTrainerHandler(trainerService *resourceapp.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// Create godoc
// @Summary      Create trainer
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Param        request body resourceapp.CreateTrainerRequest true "New trainer"
// @Success      201 {object} dto.Response{data=resourceapp.TrainerResponse}
// @Router       /trainers [post]
func (h *TrainerHandler) Create(c *gin.Context) {
	var req resourceapp.CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	trainer, err := h.trainerService.CreateTrainer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, trainer)
}

// List returns trainers with optional search and active filters
func (h *TrainerHandler) List(c *gin.Context) {
	var filter resourceapp.ResourceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.trainerService.ListTrainers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single trainer
func (h *TrainerHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	trainer, err := h.trainerService.GetTrainer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trainer)
}

// Update modifies mutable trainer fields
func (h *TrainerHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	var req resourceapp.UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	trainer, err := h.trainerService.UpdateTrainer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, trainer)
}

// Deactivate takes a trainer out of scheduling
func (h *TrainerHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	if err := h.trainerService.DeactivateTrainer(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate returns a trainer to scheduling
func (h *TrainerHandler) Activate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	if err := h.trainerService.ActivateTrainer(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddUnavailability godoc
// @Summary      Block trainer dates
// @Description  Records a window in which the trainer cannot be scheduled
// @Tags         trainers
// @Accept       json
// @Produce      json
// @Param        id path string true "Trainer ID"
// @Param        request body resourceapp.AddUnavailabilityRequest true "Window"
// @Success      201 {object} dto.Response{data=resourceapp.UnavailabilityResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /trainers/{id}/unavailability [post]
func (h *TrainerHandler) AddUnavailability(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	var req resourceapp.AddUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	window, err := h.trainerService.AddUnavailability(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, window)
}

// ListUnavailability returns the trainer's blocked windows in a date range.
// Defaults to the next 90 days when no range is given.
func (h *TrainerHandler) ListUnavailability(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid trainer ID")
		return
	}

	from, to, err := parseDateRange(c, 90*24*time.Hour)
	if err != nil {
		h.BadRequest(c, "Invalid date range")
		return
	}

	windows, err := h.trainerService.ListUnavailability(c.Request.Context(), id, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, windows)
}

// RemoveUnavailability deletes a blocked window
func (h *TrainerHandler) RemoveUnavailability(c *gin.Context) {
	windowID, ok := parseUUIDParam(c, "window_id")
	if !ok {
		h.BadRequest(c, "Invalid window ID")
		return
	}

	if err := h.trainerService.RemoveUnavailability(c.Request.Context(), windowID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD),
// defaulting to [today, today+span)
func parseDateRange(c *gin.Context, span time.Duration) (time.Time, time.Time, error) {
	now := time.Now().Truncate(24 * time.Hour)
	from, to := now, now.Add(span)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
