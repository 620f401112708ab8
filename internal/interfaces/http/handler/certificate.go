package handler

import (
	trainingapp "github.com/formax/backend/internal/application/training"
	"github.com/gin-gonic/gin"
)

// CertificateHandler handles attendance certificate endpoints
type CertificateHandler struct {
	BaseHandler
	certService *trainingapp.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certService *trainingapp.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// Issue godoc
// @Summary      Issue certificates
// @Description  Issues numbered certificates for the attendees of a delivered session
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body trainingapp.IssueCertificatesRequest true "Attendees"
// @Success      201 {object} dto.Response{data=[]trainingapp.CertificateResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sessions/{id}/certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req trainingapp.IssueCertificatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	certs, err := h.certService.IssueCertificates(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, certs)
}

// ListBySession returns all certificates issued for a session
func (h *CertificateHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	certs, err := h.certService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, certs)
}

// Download godoc
// @Summary      Certificate download link
// @Description  Returns a short-lived presigned URL for the certificate PDF
// @Tags         certificates
// @Produce      json
// @Param        id path string true "Certificate ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /certificates/{id}/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	url, err := h.certService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"url": url})
}

// Regenerate re-renders the PDF for a certificate whose document is missing
func (h *CertificateHandler) Regenerate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	cert, err := h.certService.RegenerateDocument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cert)
}

// Revoke marks a certificate as revoked. Its number is never reused.
func (h *CertificateHandler) Revoke(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	if err := h.certService.Revoke(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
