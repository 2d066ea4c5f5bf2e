package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logs-dashboard/internal/dto"
	"logs-dashboard/internal/gateway"
)

type memoryTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memoryTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memoryTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func newClient(t *testing.T, handler http.HandlerFunc, tokens gateway.TokenStore) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cli, err := gateway.New(srv.URL, tokens)
	require.NoError(t, err)
	return cli
}

func TestStatsSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"total_api_calls": 3, "status_code_statistics": {"200": 3}, "success_rate": 100}`))
	}, &memoryTokens{token: "tok-123"})

	snap, err := cli.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/logs/stats", gotPath)
	assert.Equal(t, int64(3), snap.TotalAPICalls)
	assert.Equal(t, 100.0, snap.SuccessRate)
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}, nil)

	health, err := cli.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "ok", health.Message)
}

func TestRecentLogs(t *testing.T) {
	var gotLimit string
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"logs": [
			{"_id": "abc", "timestamp": "2024-05-01T10:00:00Z", "method": "GET", "endpoint": "/tasks",
			 "status_code": 200, "response_time_ms": 12, "user": "alice", "service": "task-service"}
		], "total": 120}`))
	}, nil)

	resp, err := cli.RecentLogs(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, "50", gotLimit)
	assert.Equal(t, int64(120), resp.Total)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "alice", resp.Logs[0].User)
	assert.Equal(t, 200, resp.Logs[0].StatusCode)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), resp.Logs[0].Timestamp.UTC())
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		isAuth      bool
		isTransient bool
		message     string
	}{
		{name: "Unauthorized", status: http.StatusUnauthorized, body: `{"error": "Token expired"}`, isAuth: true, message: "Token expired"},
		{name: "Forbidden", status: http.StatusForbidden, body: `{"error": "Invalid token"}`, isAuth: true, message: "Invalid token"},
		{name: "Bad Gateway", status: http.StatusBadGateway, body: `upstream down`, isTransient: true, message: "upstream down"},
		{name: "Not Found", status: http.StatusNotFound, body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &memoryTokens{token: "tok"}
			cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, tokens)

			_, err := cli.Stats(context.Background())
			require.Error(t, err)

			var apiErr *gateway.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.isAuth, errors.Is(err, gateway.ErrAuth))
			assert.Equal(t, tt.isTransient, errors.Is(err, gateway.ErrTransient))

			if tt.isAuth {
				assert.Empty(t, tokens.Token(), "auth failures clear the credential")
				assert.Equal(t, 1, tokens.cleared)
			} else {
				assert.Equal(t, "tok", tokens.Token())
			}
		})
	}
}

func TestTransportFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cli, err := gateway.New(url, nil)
	require.NoError(t, err)
	_, err = cli.Stats(context.Background())
	assert.ErrorIs(t, err, gateway.ErrTransient)
}

func TestMalformedBody(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1, 2`))
	}, nil)

	_, err := cli.Stats(context.Background())
	assert.ErrorIs(t, err, gateway.ErrMalformed)

	_, err = cli.RecentLogs(context.Background(), 10)
	assert.ErrorIs(t, err, gateway.ErrMalformed)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := gateway.New("  ", nil)
	assert.Error(t, err)

	cli, err := gateway.New("gateway.local:5000/", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.local:5000", cli.BaseURL())
	assert.Equal(t, "http://gateway.local:5000/logs/download", cli.DownloadURL())
}

func TestLoginAndLogout(t *testing.T) {
	var logoutToken string
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var req dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "alice", req.Username)
			assert.Equal(t, "123456", req.OTP)
			_, _ = w.Write([]byte(`{"message": "Logged in successfully", "token": "t-1", "user_id": 4, "username": "alice"}`))
		case "/auth/logout":
			var req dto.TokenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			logoutToken = req.Token
			_, _ = w.Write([]byte(`{"message": "bye"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, nil)

	resp, err := cli.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "pw", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.Token)
	assert.Equal(t, int64(4), resp.UserID)

	require.NoError(t, cli.Logout(context.Background(), "t-1"))
	assert.Equal(t, "t-1", logoutToken)
	assert.NoError(t, cli.Logout(context.Background(), ""))
}

func TestValidateTokenNeedsCredential(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, &memoryTokens{})

	_, err := cli.ValidateToken(context.Background())
	assert.ErrorIs(t, err, gateway.ErrNotSignedIn)
}

func TestHealthAndDownloadURL(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/", r.URL.Path)
		_, _ = w.Write([]byte(`{"message": "API Gateway is running", "services": {"auth": "http://auth:8001", "tasks": "http://tasks:8002"}}`))
	}, nil)

	health, err := cli.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "API Gateway is running", health.Message)
	assert.Len(t, health.Services, 2)
	assert.Equal(t, cli.BaseURL()+"/logs/download", cli.DownloadURL())
}

func TestRecentLogsKeepsRecordsWithBadTimestamps(t *testing.T) {
	cli := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"logs": [
			{"timestamp": "01/05/2024 10:00", "method": "GET", "endpoint": "/tasks", "status_code": 200, "user": "alice"},
			{"timestamp": "2024-05-01T09:00:00Z", "method": "GET", "endpoint": "/users/3", "status_code": 404, "user": "bob"}
		], "total": 2}`))
	}, nil)

	resp, err := cli.RecentLogs(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, resp.Logs, 2)
	assert.True(t, resp.Logs[0].Timestamp.IsZero())
	assert.Equal(t, "alice", resp.Logs[0].User)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), resp.Logs[1].Timestamp)
}
