package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/events"
)

func TestNotificationForwardsEventsToWebhook(t *testing.T) {
	received := make(chan events.Event, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		received <- event
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{WebhookURL: server.URL})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:       "evt-1",
		Type:     events.EventTicketCreated,
		TicketID: 1,
		UserID:   100,
	})
	require.NoError(t, err)

	event := <-received
	assert.Equal(t, events.EventTicketCreated, event.Type)
	assert.Equal(t, int64(1), event.TicketID)
}

func TestNotificationWebhookFailureIsSwallowed(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL: "http://127.0.0.1:1", // nothing listens here
	})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventBackupCompleted})
	assert.NoError(t, err)
}

func TestNotificationWithoutWebhookOnlyLogs(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventAccountDeleted})
	assert.NoError(t, err)
}
