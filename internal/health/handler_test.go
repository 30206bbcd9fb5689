package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmfarias/pricing-api-golang/internal/httpx"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err    error
	called bool
}

func (pinger *fakePinger) Ping(ctx context.Context) error {
	pinger.called = true
	return pinger.err
}

func TestHealth_OK(t *testing.T) {
	handler := New(&fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ok", data["status"])
	require.NotEmpty(t, data["time"])
}

func TestReady_OK(t *testing.T) {
	pinger := &fakePinger{}
	handler := New(pinger)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	handler.Ready(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, pinger.called)

	var response httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ready", data["status"])
}

func TestReady_DatabaseDown(t *testing.T) {
	pinger := &fakePinger{err: errors.New("down")}
	handler := New(pinger)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	handler.Ready(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var response httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	require.Equal(t, "not_ready", response.Error.Code)
}
