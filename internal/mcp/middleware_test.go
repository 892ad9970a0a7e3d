package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/stretchr/testify/require"
)

func captureSessionID(t *testing.T, req sdkmcp.Request) string {
	t.Helper()
	var got string
	handler := sessionMiddleware()(func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		got = getSessionID(ctx)
		return nil, nil
	})
	_, err := handler(context.Background(), "tools/call", req)
	require.NoError(t, err)
	return got
}

func TestSessionMiddleware_HeaderSession(t *testing.T) {
	req := &sdkmcp.CallToolRequest{
		Extra: &sdkmcp.RequestExtra{Header: http.Header{"Mcp-Session-Id": []string{"sess-1"}}},
	}
	require.Equal(t, "sess-1", captureSessionID(t, req))
}

func TestSessionMiddleware_NoSession(t *testing.T) {
	require.Empty(t, captureSessionID(t, &sdkmcp.CallToolRequest{}))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_ToolCallLogsSessionAndUser(t *testing.T) {
	var out lockedBuffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ns := notificationStub{
		loadFn: func(_ context.Context, userID string) ([]notification.Notification, error) {
			return []notification.Notification{}, nil
		},
	}
	session := connectTestClient(t, Config{
		Services:      Services{Notifications: ns},
		TransportMode: "stdio",
		DefaultUser:   "emp42",
		Logger:        logger,
	})

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_notifications",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	logged := out.String()
	require.Contains(t, logged, `msg="tool call" tool=list_notifications session_id=`)
	require.Contains(t, logged, "user_id=emp42")
}
