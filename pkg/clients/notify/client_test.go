package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/dairy/internal/config"
	"github.com/mamadbah2/dairy/internal/domain/models"
	"github.com/mamadbah2/dairy/pkg/clients/notify"
)

func TestNotifyCarrySummaryPostsJSON(t *testing.T) {
	var received models.CarrySummary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := notify.NewWebhookClient(config.NotifyConfig{WebhookURL: srv.URL})
	require.True(t, client.Enabled())

	summary := models.CarrySummary{
		RunID:     "run-1",
		Date:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Processed: 3,
		Carried:   2,
		Skipped:   1,
	}
	require.NoError(t, client.NotifyCarrySummary(context.Background(), summary))

	assert.Equal(t, "run-1", received.RunID)
	assert.Equal(t, 3, received.Processed)
	assert.Equal(t, 2, received.Carried)
}

func TestNotifyCarrySummaryRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := notify.NewWebhookClient(config.NotifyConfig{WebhookURL: srv.URL})
	err := client.NotifyCarrySummary(context.Background(), models.CarrySummary{RunID: "run-2"})
	assert.Error(t, err)
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := notify.NewWebhookClient(config.NotifyConfig{})
	assert.False(t, client.Enabled())
	assert.NoError(t, client.NotifyCarrySummary(context.Background(), models.CarrySummary{}))
}
