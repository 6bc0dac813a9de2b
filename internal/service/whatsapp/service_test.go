package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
	client "github.com/mamadbah2/stockdesk/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.TextMessage
	err  error
}

func (f *fakeClient) SendText(_ context.Context, msg client.TextMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "wamid.1", nil
}

func TestNotifyUsesAlertRecipient(t *testing.T) {
	fc := &fakeClient{}
	svc := NewMetaAlertService(config.WhatsAppConfig{AlertTo: "221770000000"}, fc, nil)

	require.NoError(t, svc.Notify(context.Background(), "2 items out of stock"))
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "221770000000", fc.sent[0].To)
	assert.Equal(t, "2 items out of stock", fc.sent[0].Body)
}

func TestSendOutboundExplicitRecipient(t *testing.T) {
	fc := &fakeClient{}
	svc := NewMetaAlertService(config.WhatsAppConfig{AlertTo: "default"}, fc, nil)

	require.NoError(t, svc.SendOutbound(context.Background(), models.AlertMessage{To: "other", Message: "hi", PreviewURL: true}))
	assert.Equal(t, "other", fc.sent[0].To)
	assert.True(t, fc.sent[0].PreviewURL)
}

func TestSendOutboundErrors(t *testing.T) {
	svc := NewMetaAlertService(config.WhatsAppConfig{}, nil, nil)
	assert.ErrorIs(t, svc.Notify(context.Background(), "x"), ErrAlertsDisabled)

	svc = NewMetaAlertService(config.WhatsAppConfig{AlertTo: "a"}, &fakeClient{}, nil)
	assert.ErrorIs(t, svc.Notify(context.Background(), "  "), ErrEmptyAlert)

	svc = NewMetaAlertService(config.WhatsAppConfig{}, &fakeClient{}, nil)
	assert.ErrorIs(t, svc.SendOutbound(context.Background(), models.AlertMessage{To: " ", Message: "x"}), ErrNoRecipient)

	boom := errors.New("boom")
	svc = NewMetaAlertService(config.WhatsAppConfig{AlertTo: "a"}, &fakeClient{err: boom}, nil)
	assert.ErrorIs(t, svc.Notify(context.Background(), "x"), boom)
}
