package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewSession(t *testing.T) {
	path := writeConfig(t, `
scenes:
  - name: lobby
    surfaces:
      menu: 1
    visible: [menu]
  - name: game
    extends: lobby
`)

	session, err := NewSession(RunOptions{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "lobby", session.FirstScene)
	assert.Equal(t, []string{"game", "lobby"}, session.Director.SceneNames())

	require.NoError(t, session.Director.Switch(context.Background(), session.FirstScene, nil))
	assert.Equal(t, "lobby", session.Director.Current())

	recs, err := session.History.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNewSessionInitialOverride(t *testing.T) {
	path := writeConfig(t, `
scenes:
  - name: lobby
  - name: game
`)

	session, err := NewSession(RunOptions{ConfigPath: path, Initial: "game"})
	require.NoError(t, err)
	assert.Equal(t, "game", session.FirstScene)
}

func TestNewSessionMissingConfig(t *testing.T) {
	_, err := NewSession(RunOptions{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestNewSessionEmptyConfig(t *testing.T) {
	path := writeConfig(t, "scenes: []\n")
	_, err := NewSession(RunOptions{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenes")
}
