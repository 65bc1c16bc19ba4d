package server

import (
	"encoding/json"
	"strings"
	"testing"

	"net/http/httptest"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowshot/flowshot/commands"
	"github.com/flowshot/flowshot/config"
)

func setupTestServer(t *testing.T, enableCORS bool) (*httptest.Server, string) {
	t.Helper()
	commands.SetApp(commands.NewApp(config.Default()))

	handler := NewWebSocketHandler(enableCORS)
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return server, wsURL
}

func connectWebSocket(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "should connect to WebSocket")
	return conn
}

func sendJSONRPCRequest(t *testing.T, conn *websocket.Conn, req JSONRPCRequest) {
	err := conn.WriteJSON(req)
	require.NoError(t, err, "should send request")
}

func readJSONRPCResponse(t *testing.T, conn *websocket.Conn) JSONRPCResponse {
	var resp JSONRPCResponse
	err := conn.ReadJSON(&resp)
	require.NoError(t, err, "should read response")
	return resp
}

func TestWebSocket_ValidRequest(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	req := JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  "status",
		Params:  json.RawMessage(`{}`),
		ID:      1,
	}

	sendJSONRPCRequest(t, conn, req)
	resp := readJSONRPCResponse(t, conn)

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, int(resp.ID.(float64)))
	assert.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "result should be an object")
	assert.Equal(t, false, result["tracking"])
}

func TestWebSocket_MethodNotFound(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "bogus", ID: 2})
	resp := readJSONRPCResponse(t, conn)

	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(ErrCodeMethodNotFound), errObj["code"])
}

func TestWebSocket_InvalidVersion(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "1.0", Method: "status", ID: 3})
	resp := readJSONRPCResponse(t, conn)

	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(ErrCodeInvalidRequest), errObj["code"])
}

func TestWebSocket_MissingID(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "status"})
	resp := readJSONRPCResponse(t, conn)

	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(ErrCodeInvalidRequest), errObj["code"])
}

func TestWebSocket_ShutdownRejected(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "server.shutdown", ID: 4})
	resp := readJSONRPCResponse(t, conn)

	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(ErrCodeMethodNotFound), errObj["code"])
}

func TestWebSocket_GraphRoundTrip(t *testing.T) {
	server, wsURL := setupTestServer(t, false)
	defer server.Close()

	conn := connectWebSocket(t, wsURL)
	defer conn.Close()

	params, _ := json.Marshal(map[string]interface{}{
		"label": "checkout", "x": 0, "y": 0, "width": 200, "height": 100,
	})
	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "graph.region.add", Params: params, ID: 5})
	resp := readJSONRPCResponse(t, conn)
	require.Nil(t, resp.Error)

	sendJSONRPCRequest(t, conn, JSONRPCRequest{JSONRPC: "2.0", Method: "graph.get", ID: 6})
	resp = readJSONRPCResponse(t, conn)
	require.Nil(t, resp.Error)

	graph, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, graph["regions"], 1)
}
