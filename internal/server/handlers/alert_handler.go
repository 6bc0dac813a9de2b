package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/service/reporting"
	"github.com/mamadbah2/stockdesk/internal/service/whatsapp"
)

// DigestService builds and distributes the low stock digest.
type DigestService interface {
	BuildDigest(ctx context.Context) (*models.StockDigest, error)
	Run(ctx context.Context) (*models.StockDigest, error)
}

// AlertHandler exposes the low stock digest and manual notifications.
type AlertHandler struct {
	digest DigestService
	alerts whatsapp.AlertService
	logger *zap.Logger
}

// NewAlertHandler constructs the HTTP handler adapter. alerts may be nil when
// WhatsApp is not configured.
func NewAlertHandler(digest DigestService, alerts whatsapp.AlertService, logger *zap.Logger) *AlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertHandler{digest: digest, alerts: alerts, logger: logger}
}

// Digest returns the current low stock digest without sending it.
func (h *AlertHandler) Digest(c *gin.Context) {
	digest, err := h.digest.BuildDigest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to build stock digest")
		return
	}
	c.JSON(http.StatusOK, gin.H{"digest": digest, "message": reporting.FormatDigest(digest)})
}

// RunDigest builds, exports and sends the digest immediately.
func (h *AlertHandler) RunDigest(c *gin.Context) {
	digest, err := h.digest.Run(c.Request.Context())
	if digest == nil {
		respondError(c, h.logger, err, "Failed to build stock digest")
		return
	}

	body := gin.H{"digest": digest, "message": reporting.FormatDigest(digest)}
	if err != nil {
		h.logger.Warn("stock digest delivered partially", zap.Error(err))
		body["error"] = err.Error()
		c.JSON(http.StatusMultiStatus, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// SendMessage lets operators send a manual WhatsApp notification.
func (h *AlertHandler) SendMessage(c *gin.Context) {
	if h.alerts == nil {
		respondError(c, h.logger, whatsapp.ErrAlertsDisabled, "")
		return
	}

	var req models.AlertMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.alerts.SendOutbound(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err, "unable to send message")
		return
	}
	c.Status(http.StatusAccepted)
}
