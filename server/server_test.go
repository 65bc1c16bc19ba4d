package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowshot/flowshot/commands"
	"github.com/flowshot/flowshot/config"
	"github.com/flowshot/flowshot/tracking"
)

// newRPCServer gives each test a fresh app state and an httptest server
// exposing the /rpc endpoint.
func newRPCServer(t *testing.T) *httptest.Server {
	t.Helper()
	commands.SetApp(commands.NewApp(config.Default()))

	mux := http.NewServeMux()
	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", handleJSONRPC)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postRaw(t *testing.T, url string, body []byte) JSONRPCResponse {
	t.Helper()
	resp, err := http.Post(url+"/rpc", "application/json", bytes.NewReader(body))
	require.NoError(t, err, "should reach the rpc endpoint")
	defer resp.Body.Close()

	var rpcResp JSONRPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcResp), "response should be json")
	return rpcResp
}

func call(t *testing.T, url, method string, params interface{}) JSONRPCResponse {
	t.Helper()
	req := JSONRPCRequest{JSONRPC: "2.0", Method: method, ID: 1}
	if params != nil {
		payload, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = payload
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return postRaw(t, url, body)
}

func errorCode(t *testing.T, resp JSONRPCResponse) int {
	t.Helper()
	errObj, ok := resp.Error.(map[string]interface{})
	require.True(t, ok, "response should carry an error object")
	return int(errObj["code"].(float64))
}

func TestBanner(t *testing.T) {
	server := newRPCServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRPCValidation(t *testing.T) {
	server := newRPCServer(t)

	t.Run("parse error", func(t *testing.T) {
		resp := postRaw(t, server.URL, []byte("{not json"))
		assert.Equal(t, ErrCodeParseError, errorCode(t, resp))
	})

	t.Run("wrong jsonrpc version", func(t *testing.T) {
		resp := postRaw(t, server.URL, []byte(`{"jsonrpc":"1.0","method":"status","id":1}`))
		assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, resp))
	})

	t.Run("missing id", func(t *testing.T) {
		resp := postRaw(t, server.URL, []byte(`{"jsonrpc":"2.0","method":"status"}`))
		assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, resp))
	})

	t.Run("missing method", func(t *testing.T) {
		resp := postRaw(t, server.URL, []byte(`{"jsonrpc":"2.0","id":1}`))
		assert.Equal(t, ErrCodeInvalidRequest, errorCode(t, resp))
	})

	t.Run("unknown method", func(t *testing.T) {
		resp := call(t, server.URL, "no.such.method", nil)
		assert.Equal(t, ErrCodeMethodNotFound, errorCode(t, resp))
	})
}

func TestStatusMethod(t *testing.T) {
	server := newRPCServer(t)

	resp := call(t, server.URL, "status", nil)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, result["tracking"])
}

func TestGraphMethods(t *testing.T) {
	server := newRPCServer(t)

	// add a region, see it in the graph
	resp := call(t, server.URL, "graph.region.add", map[string]interface{}{
		"label": "login", "x": 10, "y": 20, "width": 400, "height": 300,
	})
	require.Nil(t, resp.Error)
	regionID := resp.Result.(map[string]interface{})["id"].(string)
	require.NotEmpty(t, regionID)

	resp = call(t, server.URL, "graph.get", nil)
	require.Nil(t, resp.Error)
	graph := resp.Result.(map[string]interface{})
	assert.Len(t, graph["regions"], 1)

	// undo removes it again
	resp = call(t, server.URL, "graph.undo", nil)
	require.Nil(t, resp.Error)
	assert.Equal(t, true, resp.Result.(map[string]interface{})["applied"])

	resp = call(t, server.URL, "graph.get", nil)
	require.Nil(t, resp.Error)
	graph = resp.Result.(map[string]interface{})
	assert.Len(t, graph["regions"], 0)

	// redo brings it back
	resp = call(t, server.URL, "graph.redo", nil)
	require.Nil(t, resp.Error)
	assert.Equal(t, true, resp.Result.(map[string]interface{})["applied"])
}

func TestConnectionValidationOverRPC(t *testing.T) {
	server := newRPCServer(t)

	resp := call(t, server.URL, "graph.connection.add", map[string]interface{}{
		"from": "missing-a", "to": "missing-b",
	})
	assert.Equal(t, ErrCodeServerError, errorCode(t, resp))
}

func TestExportRequiresOutputDir(t *testing.T) {
	server := newRPCServer(t)

	resp := call(t, server.URL, "export.package", map[string]interface{}{})
	assert.Equal(t, ErrCodeServerError, errorCode(t, resp))
}

// writeRecording lays out a minimal frame-sequence recording on disk.
func writeRecording(t *testing.T, frames int) string {
	t.Helper()
	dir := t.TempDir()

	manifest := fmt.Sprintf(`{"fps":10,"width":32,"height":24,"frameCount":%d}`, frames)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0o600))

	for i := 0; i < frames; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 32, 24))
		for y := 0; y < 24; y++ {
			for x := 0; x < 32; x++ {
				img.SetRGBA(x, y, color.RGBA{R: uint8(i * 20), A: 255})
			}
		}
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame-%06d.png", i)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
	return dir
}

func TestExtractClicksToExportFlow(t *testing.T) {
	server := newRPCServer(t)

	recordingDir := writeRecording(t, 5)

	trackPath := filepath.Join(t.TempDir(), "track.json")
	trackData := tracking.TrackData{
		Events: []tracking.MouseEvent{
			{ID: "e1", TimestampMs: 100, X: 0.5, Y: 0.5, Type: tracking.EventClick, Button: tracking.ButtonLeft},
			{ID: "e2", TimestampMs: 300, X: 0.25, Y: 0.75, Type: tracking.EventClick, Button: tracking.ButtonLeft},
		},
		ScreenBounds: tracking.ScreenBounds{Width: 1920, Height: 1080},
	}
	require.NoError(t, tracking.SaveTrackData(trackPath, trackData))

	// extract one keyframe per click, with auto layout
	resp := call(t, server.URL, "extract.clicks", map[string]interface{}{
		"sourceDir":  recordingDir,
		"trackFile":  trackPath,
		"autoLayout": true,
	})
	require.Nil(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, float64(2), result["total"])
	assert.Equal(t, float64(2), result["successful"])
	assert.Equal(t, float64(0), result["failed"])

	resp = call(t, server.URL, "graph.get", nil)
	require.Nil(t, resp.Error)
	graph := resp.Result.(map[string]interface{})
	require.Len(t, graph["keyframes"], 2)
	assert.Len(t, graph["connections"], 1)

	// export the graph as a package
	outDir := t.TempDir()
	resp = call(t, server.URL, "export.package", map[string]interface{}{
		"outputDir":   outDir,
		"projectName": "demo",
	})
	require.Nil(t, resp.Error)

	pkgDir := filepath.Join(outDir, "demo")
	_, err := os.Stat(filepath.Join(pkgDir, "flow.json"))
	assert.NoError(t, err, "flow.json should be written")
	_, err = os.Stat(filepath.Join(pkgDir, "assets", "frame-001.png"))
	assert.NoError(t, err, "first asset should be written")
}
