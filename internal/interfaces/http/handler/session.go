package handler

import (
	trainingapp "github.com/formax/backend/internal/application/training"
	"github.com/gin-gonic/gin"
)

// SessionHandler handles training session endpoints
type SessionHandler struct {
	BaseHandler
	sessionService *trainingapp.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *trainingapp.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create godoc
// @Summary      Create session
// @Description  Creates a draft training session; resources are assigned separately
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body trainingapp.CreateSessionRequest true "New session"
// @Success      201 {object} dto.Response{data=trainingapp.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req trainingapp.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// List godoc
// @Summary      List sessions
// @Tags         sessions
// @Produce      json
// @Success      200 {object} dto.Response{data=[]trainingapp.SessionResponse}
// @Router       /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	var filter trainingapp.SessionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.sessionService.ListSessions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single session
func (h *SessionHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Update modifies descriptive session fields
func (h *SessionHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.UpdateSession(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Reschedule godoc
// @Summary      Reschedule session
// @Description  Moves a session to a new time slot, re-checking resource conflicts
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body trainingapp.RescheduleRequest true "New slot"
// @Success      200 {object} dto.Response{data=trainingapp.SessionResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sessions/{id}/reschedule [post]
func (h *SessionHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Reschedule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// AssignResources books or releases trainers, a room, or a mobile unit
func (h *SessionHandler) AssignResources(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.AssignResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.AssignResources(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Transition moves a session through its lifecycle (confirm, deliver, close)
func (h *SessionHandler) Transition(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Cancel cancels a session, releasing its resources
func (h *SessionHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Delete removes a draft session
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CheckConflicts godoc
// @Summary      Check resource conflicts
// @Description  Reports whether a slot is free for the given trainers, room or unit
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body trainingapp.ConflictCheckRequest true "Slot and resources"
// @Success      200 {object} dto.Response{data=trainingapp.ConflictCheckResponse}
// @Router       /sessions/conflicts [post]
func (h *SessionHandler) CheckConflicts(c *gin.Context) {
	var req trainingapp.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.sessionService.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
