package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/staffboard/internal/config"
	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/domain/timeline"
	"github.com/rpggio/staffboard/internal/mcp"
	"github.com/rpggio/staffboard/internal/sqlite"
	"github.com/rpggio/staffboard/internal/transport"
	"github.com/stretchr/testify/require"
)

// Options tune the in-process server.
type Options struct {
	// Store is config.StoreTable (default) or config.StoreCollection.
	Store string
	Now   func() time.Time
	Grace time.Duration
}

type TestServer struct {
	Server        *httptest.Server
	DB            *sqlite.DB
	Token         string
	UserID        string
	Keys          *sqlite.APIKeyStore
	Notifications *notification.Service
}

func New(t *testing.T, token, userID string, opts Options) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	policy := timeline.NewCutoffPolicy(time.UTC, opts.Grace)
	policy.Now = now
	activityRepo := sqlite.NewActivityRepository(db, policy)
	timelineSvc := timeline.NewService(activityRepo, policy, nil,
		timeline.WithClock(now),
		timeline.WithLocation(time.UTC),
	)

	var store notification.Store
	if opts.Store == config.StoreCollection {
		store = sqlite.NewNotificationCollection(sqlite.NewKVStore(db))
	} else {
		store = sqlite.NewNotificationRepository(db)
	}
	notificationSvc, err := notification.NewService(store, nil, notification.WithClock(now))
	require.NoError(t, err)

	handler := mcp.NewHandler(mcp.Services{
		Timeline:      timelineSvc,
		Notifications: notificationSvc,
	})

	keys := sqlite.NewAPIKeyStore(db)
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(keys), nil))

	ts := &TestServer{
		Server:        server,
		DB:            db,
		Token:         token,
		UserID:        userID,
		Keys:          keys,
		Notifications: notificationSvc,
	}

	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, userID string) error {
	return ts.Keys.AddAPIKey(context.Background(), token, userID, "test")
}

// Call posts a JSON-RPC request with the given token and decodes the response.
func (ts *TestServer) Call(t *testing.T, token, method string, params any) transport.Response {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Decode re-encodes a response result into out.
func Decode(t *testing.T, resp transport.Response, out any) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected rpc error: %+v", resp.Error)
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}
