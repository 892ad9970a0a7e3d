package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, userID, method string, params json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"user": userID}, nil
}

type codedErr struct{ code string }

func (e codedErr) Error() string             { return e.code }
func (e codedErr) CodeValue() string         { return e.code }
func (e codedErr) MessageValue() string      { return "hour is locked" }
func (e codedErr) DetailsValue() any         { return nil }
func (e codedErr) RecoveryHintValue() string { return "pick an open hour" }

type staticResolver struct {
	user string
}

func (r *staticResolver) ResolveUser(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	return r.user, nil
}

func postRPC(t *testing.T, url, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &staticResolver{user: "u1"}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(resolver), nil))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_notifications","id":1}`, "token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "list_notifications", handler.method)

	out := decodeResponse(t, resp)
	require.Nil(t, out.Error)
	require.Equal(t, map[string]any{"user": "u1"}, out.Result)
}

func TestHTTPServer_RequiresToken(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, AuthMiddleware(&staticResolver{user: "u1"}), nil))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_notifications","id":1}`, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_DefaultUser(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, DefaultUserMiddleware("local"), nil))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"clear_notifications","id":"a"}`, "")
	out := decodeResponse(t, resp)
	require.Equal(t, map[string]any{"user": "local"}, out.Result)
}

func TestHTTPServer_Errors(t *testing.T) {
	handler := &testHandler{err: fmt.Errorf("logging: %w", codedErr{code: "HOUR_LOCKED"})}
	server := httptest.NewServer(NewServer(handler, DefaultUserMiddleware("local"), nil))
	t.Cleanup(server.Close)

	out := decodeResponse(t, postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"log_activity","id":2}`, ""))
	require.NotNil(t, out.Error)
	require.Equal(t, ErrApplication, out.Error.Code)
	require.Equal(t, "hour is locked", out.Error.Message)
	data := out.Error.Data.(map[string]any)
	require.Equal(t, "HOUR_LOCKED", data["code"])

	handler.err = codedErr{code: "METHOD_NOT_FOUND"}
	out = decodeResponse(t, postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"nope","id":3}`, ""))
	require.Equal(t, ErrMethodNotFound, out.Error.Code)

	handler.err = errors.New("database locked")
	out = decodeResponse(t, postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_notifications","id":4}`, ""))
	require.Equal(t, ErrInternal, out.Error.Code)

	out = decodeResponse(t, postRPC(t, server.URL, `{"method":"x"}`, ""))
	require.Equal(t, ErrInvalidReq, out.Error.Code)
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(&staticResolver{}), nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
