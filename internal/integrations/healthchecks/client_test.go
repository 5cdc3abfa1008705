package healthchecks_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	portssvc "github.com/exchangehouse/exchange_house_app/internal/core/ports/services"
	"github.com/exchangehouse/exchange_house_app/internal/integrations/healthchecks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingSuccess(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := healthchecks.NewClient(server.URL, server.URL)

	err := client.Ping(context.Background(), portssvc.HealthcheckHeartbeat)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestPingNoURLConfigured(t *testing.T) {
	client := healthchecks.NewClient("", "")

	err := client.Ping(context.Background(), portssvc.HealthcheckRefreshCompleted)

	require.Error(t, err)
	assert.ErrorIs(t, err, portssvc.ErrNoURLConfigured)
}

func TestPingFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := healthchecks.NewClient(server.URL, "")

	err := client.Ping(context.Background(), portssvc.HealthcheckHeartbeat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
