package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsLoggedOut(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope", "session.json"))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
	assert.Equal(t, ThemeLight, s.Theme)
}

func TestLoginLogoutPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	s, err := Load(path)
	require.NoError(t, err)

	require.Error(t, s.Login("   "))
	require.NoError(t, s.Login(" alice "))
	require.NoError(t, s.SetTheme(ThemeDark))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, ThemeDark, again.Theme)

	require.NoError(t, again.Logout())
	after, err := Load(path)
	require.NoError(t, err)
	assert.False(t, after.LoggedIn())
	assert.Equal(t, ThemeDark, after.Theme, "logout keeps the theme")
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_UnknownThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"username":"bob","theme":"neon"}`), 0o600))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Theme)
	assert.Equal(t, "bob", s.Username)
}

func TestTheme(t *testing.T) {
	th, err := ParseTheme("DARK")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)
	assert.Equal(t, ThemeLight, th.Toggled())
	assert.Equal(t, ThemeDark, ThemeLight.Toggled())
	_, err = ParseTheme("blue")
	assert.Error(t, err)
}

func TestSave_RenameFailureCleansTemp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	// 目标是非空目录，rename 必然失败
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o700))

	s := &Session{Username: "alice", Theme: ThemeLight, path: path}
	err := s.Save()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace session")

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}
