package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scenestack "github.com/scenestack/scenestack"
	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/dsl"
)

func newTestServer(t *testing.T) (*httptest.Server, *scenestack.Director) {
	t.Helper()

	history := memory.NewHistory()
	director := scenestack.New(scenestack.WithHistory(history))
	director.Register(dsl.New("lobby"))
	director.Register(dsl.New("game"))
	director.Register(dsl.New("pause"))

	handler := NewHandler(director, WithHistory(history))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, director
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSwitchAndStack(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/switch", map[string]string{"scene": "lobby"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[stackResponse](t, resp)
	assert.Equal(t, "lobby", got.Current)
	assert.Equal(t, []string{"lobby"}, got.Stack)
}

func TestPushPop(t *testing.T) {
	srv, director := newTestServer(t)
	require.NoError(t, director.Switch(context.Background(), "game", nil))

	resp := postJSON(t, srv.URL+"/push", map[string]string{"scene": "pause"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"game", "pause"}, director.Stack())

	resp = postJSON(t, srv.URL+"/pop", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"game"}, director.Stack())
}

func TestSwitchUnknownScene(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/switch", map[string]string{"scene": "nowhere"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPopAtFloor(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/pop", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSwitchMissingScene(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/switch", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenes(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/scenes")
	require.NoError(t, err)
	defer resp.Body.Close()

	got := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"game", "lobby", "pause"}, got["scenes"])
}

func TestHistory(t *testing.T) {
	srv, director := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, director.Switch(ctx, "lobby", nil))
	require.NoError(t, director.Push(ctx, "game", nil))

	resp, err := http.Get(srv.URL + "/history?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		History []struct {
			Op string `json:"op"`
			To string `json:"to"`
		} `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.History, 1)
	assert.Equal(t, "push", got.History[0].Op)
	assert.Equal(t, "game", got.History[0].To)
}
