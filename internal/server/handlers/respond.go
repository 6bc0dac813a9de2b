package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	"github.com/mamadbah2/stockdesk/internal/service/inventory"
	"github.com/mamadbah2/stockdesk/internal/service/products"
	"github.com/mamadbah2/stockdesk/internal/service/whatsapp"
	"github.com/mamadbah2/stockdesk/internal/service/workspace"
	"github.com/mamadbah2/stockdesk/pkg/clients/catalog"
	waclient "github.com/mamadbah2/stockdesk/pkg/clients/whatsapp"
)

// UserHeader identifies the operator behind a request.
const UserHeader = "X-User-ID"

const anonymousUser = "anonymous"

func actorFrom(c *gin.Context) string {
	if user := strings.TrimSpace(c.GetHeader(UserHeader)); user != "" {
		return user
	}
	return anonymousUser
}

// respondError maps service errors onto HTTP responses. fallback is shown when
// neither the error nor the catalog carries a message worth showing.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var (
		apiErr   *catalog.APIError
		waErr    *waclient.APIError
		validErr *products.ValidationError
	)

	switch {
	case errors.Is(err, workspace.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": products.ErrInvalidProduct.Error(), "fields": validErr.Fields})
	case errors.Is(err, inventory.ErrEmptySelection),
		errors.Is(err, inventory.ErrInvalidDate),
		errors.Is(err, stock.ErrUnknownStatus),
		errors.Is(err, stock.ErrInvalidField),
		errors.Is(err, stock.ErrUnknownUnit),
		errors.Is(err, whatsapp.ErrEmptyAlert),
		errors.Is(err, whatsapp.ErrNoRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, whatsapp.ErrAlertsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		logger.Warn("catalog rejected request", zap.Int("status", apiErr.Status), zap.String("op", apiErr.Op), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
	case errors.As(err, &waErr):
		logger.Warn("whatsapp rejected request", zap.Int("status", waErr.Status), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	case errors.Is(err, catalog.ErrTransport):
		logger.Error("catalog unreachable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// withSubmitGate runs fn while action is marked in flight for the caller.
func withSubmitGate(c *gin.Context, sessions *workspace.SessionManager, action workspace.Action, fn func(user string) error) error {
	user := actorFrom(c)
	if err := sessions.BeginSubmit(user, action); err != nil {
		return err
	}
	defer sessions.EndSubmit(user, action)
	return fn(user)
}

// bindOptionalJSON binds a JSON body, accepting an empty one.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
