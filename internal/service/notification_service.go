package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/events"
)

// NotificationService forwards domain events to the chat gateway, which owns
// the actual user-facing delivery.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: timeout},
	}
}

// RegisterHandlers subscribes to every event the gateway cares about.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventAccountProvisioned,
		events.EventAccountSuspended,
		events.EventAccountUnsuspended,
		events.EventAccountDeleted,
		events.EventBackupCompleted,
		events.EventDatabaseCreated,
		events.EventTicketCreated,
		events.EventTicketMessageAdded,
		events.EventTicketStatusChanged,
	} {
		n.dispatcher.Subscribe(eventType, n.forward)
	}
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("username", event.Username),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("user_id", event.UserID))

	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		// delivery is best-effort; the gateway can poll if it misses events
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook delivery rejected", zap.Int("status", resp.StatusCode))
	}
	return nil
}
