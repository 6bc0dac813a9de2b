package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
	client "github.com/mamadbah2/stockdesk/pkg/clients/whatsapp"
)

var (
	// ErrAlertsDisabled indicates that no WhatsApp sender is configured.
	ErrAlertsDisabled = errors.New("whatsapp alerts are not configured")
	// ErrEmptyAlert indicates a message without a body.
	ErrEmptyAlert = errors.New("alert message is empty")
	// ErrNoRecipient indicates a message without a recipient and no configured default.
	ErrNoRecipient = errors.New("alert recipient is missing")
)

// AlertService sends stock notifications to operators.
type AlertService interface {
	Notify(ctx context.Context, message string) error
	SendOutbound(ctx context.Context, req models.AlertMessage) error
}

// MetaAlertService is the production implementation backed by WhatsApp Cloud API.
type MetaAlertService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaAlertService wires a new service instance.
func NewMetaAlertService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaAlertService {
	svc := &MetaAlertService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Notify sends message to the configured stock manager number.
func (s *MetaAlertService) Notify(ctx context.Context, message string) error {
	return s.SendOutbound(ctx, models.AlertMessage{To: s.cfg.AlertTo, Message: message})
}

// SendOutbound lets operators push a notification to any number.
func (s *MetaAlertService) SendOutbound(ctx context.Context, req models.AlertMessage) error {
	if s.client == nil {
		return ErrAlertsDisabled
	}
	if strings.TrimSpace(req.Message) == "" {
		return ErrEmptyAlert
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = s.cfg.AlertTo
	}
	if to == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := s.client.SendText(ctxWithTimeout, client.TextMessage{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		s.logger.Error("failed to send whatsapp alert", zap.String("to", to), zap.Error(err))
		return err
	}

	s.logger.Info("whatsapp alert sent", zap.String("to", to), zap.String("message_id", id))
	return nil
}
