package handler

import (
	"strconv"

	payrollapp "github.com/formax/backend/internal/application/payroll"
	"github.com/gin-gonic/gin"
)

// PayrollHandler handles trainer payroll endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Generate godoc
// @Summary      Generate payroll run
// @Description  Computes or recomputes the trainer payroll for a month from delivered sessions
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.GenerateRequest true "Period"
// @Success      200 {object} dto.Response{data=payrollapp.PayrollResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /payroll/generate [post]
func (h *PayrollHandler) Generate(c *gin.Context) {
	var req payrollapp.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.payrollService.Generate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// List returns payroll runs, newest first
func (h *PayrollHandler) List(c *gin.Context) {
	var filter payrollapp.PayrollListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.payrollService.ListPayrolls(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns a single payroll run
func (h *PayrollHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	run, err := h.payrollService.GetPayroll(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// GetByPeriod returns the run for one year/month
func (h *PayrollHandler) GetByPeriod(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Param("year"))
	month, err2 := strconv.Atoi(c.Param("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		h.BadRequest(c, "Invalid payroll period")
		return
	}

	run, err := h.payrollService.GetByPeriod(c.Request.Context(), year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// AddAdjustment adds a manual line to an open run
func (h *PayrollHandler) AddAdjustment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	var req payrollapp.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	run, err := h.payrollService.AddAdjustment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// RemoveLine removes a line from an open run
func (h *PayrollHandler) RemoveLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	lineID, ok := parseUUIDParam(c, "line_id")
	if !ok {
		h.BadRequest(c, "Invalid line ID")
		return
	}

	run, err := h.payrollService.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// Approve freezes a run. Approved runs reject further edits.
func (h *PayrollHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	approvedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	run, err := h.payrollService.Approve(c.Request.Context(), id, approvedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}

// MarkPaid records that an approved run was paid out
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	run, err := h.payrollService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, run)
}
