package handler

import (
	"crypto/subtle"
	"net/http"

	crmapp "github.com/formax/backend/internal/application/crm"
	"github.com/formax/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PipedriveWebhookHandler receives deal webhooks from Pipedrive. The
// endpoint sits outside session auth; Pipedrive authenticates with the
// basic auth credentials configured on the webhook subscription.
type PipedriveWebhookHandler struct {
	BaseHandler
	service *crmapp.PipedriveService
	cfg     config.PipedriveConfig
	logger  *zap.Logger
}

// NewPipedriveWebhookHandler creates a new webhook handler
func NewPipedriveWebhookHandler(service *crmapp.PipedriveService, cfg config.PipedriveConfig, logger *zap.Logger) *PipedriveWebhookHandler {
	return &PipedriveWebhookHandler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// Handle godoc
// @Summary      Pipedrive deal webhook
// @Description  Imports or updates a deal from a Pipedrive change event
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=crmapp.WebhookResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhooks/pipedrive [post]
func (h *PipedriveWebhookHandler) Handle(c *gin.Context) {
	if !h.authorized(c) {
		c.Header("WWW-Authenticate", `Basic realm="webhooks"`)
		h.Unauthorized(c, "Invalid webhook credentials")
		return
	}

	var payload crmapp.PipedriveWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, "Invalid webhook payload")
		return
	}

	result, err := h.service.HandleWebhook(c.Request.Context(), payload)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("Pipedrive webhook rejected",
				zap.String("event_id", payload.Meta.ID),
				zap.Error(err))
		}
		h.HandleError(c, err)
		return
	}

	if h.logger != nil {
		h.logger.Info("Pipedrive webhook processed",
			zap.String("event_id", payload.Meta.ID),
			zap.Bool("duplicate", result.Duplicate),
			zap.Bool("created", result.Created))
	}

	// Always 200 so Pipedrive does not retry processed events
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// authorized checks the webhook basic auth credentials in constant time
func (h *PipedriveWebhookHandler) authorized(c *gin.Context) bool {
	if h.cfg.WebhookUser == "" {
		// No credentials configured means the webhook is not exposed
		return false
	}

	user, password, ok := c.Request.BasicAuth()
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(h.cfg.WebhookUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.WebhookPassword)) == 1
	return userOK && passOK
}
