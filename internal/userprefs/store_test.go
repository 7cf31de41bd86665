package userprefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoroni/cactusbot/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	return NewStore(t.TempDir(), log)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	prefs, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, Preferences{}, prefs)
}

func TestStore_SetUsername(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetUsername("12345", "  Lorenzo  "))

	prefs, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "Lorenzo", prefs.Username)
}

func TestStore_SetInitializationPrompt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetInitializationPrompt("12345", "Always answer in rhymes."))
	require.NoError(t, store.SetUsername("12345", "Lorenzo"))

	// Mutations accumulate in the same file
	prefs, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "Always answer in rhymes.", prefs.InitializationPrompt)
	assert.Equal(t, "Lorenzo", prefs.Username)
}

func TestStore_SetVoice(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetVoice("12345", "Female"))

	prefs, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, VoiceFemale, prefs.Voice)

	err = store.SetVoice("12345", "robot")
	require.ErrorIs(t, err, ErrUnsupportedVoice)
}

func TestStore_SetLanguage(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetLanguage("12345", "italian"))

	prefs, err := store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "it", prefs.Language)

	err = store.SetLanguage("12345", "klingon")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	// Failed mutation must not clobber the stored value
	prefs, err = store.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "it", prefs.Language)
}

func TestStore_BadChatID(t *testing.T) {
	store := newTestStore(t)

	for _, chatID := range []string{"", "../escape", "a/b", `a\b`} {
		_, err := store.Get(chatID)
		assert.ErrorIs(t, err, ErrBadChatID, "chat id %q", chatID)
	}
}

func TestStore_IsolatedPerChat(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetUsername("111", "Anna"))
	require.NoError(t, store.SetUsername("222", "Bruno"))

	prefs, err := store.Get("111")
	require.NoError(t, err)
	assert.Equal(t, "Anna", prefs.Username)

	prefs, err = store.Get("222")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", prefs.Username)
}

func TestStore_CorruptFile(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)

	dir := t.TempDir()
	store := NewStore(dir, log)

	prefsDir := filepath.Join(dir, "prefs")
	require.NoError(t, os.MkdirAll(prefsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(prefsDir, "12345.json"), []byte("not json"), 0644))

	_, err = store.Get("12345")
	assert.Error(t, err)
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"english", "en", false},
		{"italian", "it", false},
		{"en", "en", false},
		{"it-IT", "it", false},
		{"EN-US", "en", false},
		{"", "", true},
		{"not-a-tag!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeLanguage(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
