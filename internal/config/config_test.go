package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/go-playground/assert/v2"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talkup", "config.toml")

	cfg, err := Load(path)
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.SuggestDebounce(), 120*time.Millisecond)
	assert.Equal(t, cfg.TypingIdle(), 700*time.Millisecond)
	assert.Equal(t, cfg.RequestTimeout(), 5*time.Second)

	info, err := os.Stat(path)
	assert.Equal(t, err, nil)
	assert.Equal(t, info.Mode().Perm(), os.FileMode(0600))
}

func TestLoadBackfillsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "receiver_id = \"user-7\"\nsuggest_debounce_ms = 250\n"
	assert.Equal(t, os.WriteFile(path, []byte(body), 0600), nil)

	cfg, err := Load(path)
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.ReceiverID, "user-7")
	assert.Equal(t, cfg.SuggestDebounceMS, 250)
	assert.Equal(t, cfg.TypingIdleMS, 700)
	assert.Equal(t, cfg.Keys.ApplySuggestion, []string{"tab"})

	raw, _ := os.ReadFile(path)
	assert.Equal(t, strings.Contains(string(raw), "typing_idle_ms"), true)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OracleURL = "not a url"
	cfg.SocketCodec = "xml"

	err := cfg.Validate()
	assert.NotEqual(t, err, nil)
	assert.Equal(t, strings.Contains(err.Error(), "oracle_url"), true)
	assert.Equal(t, strings.Contains(err.Error(), "socket_codec"), true)
}

func TestEmptySocketURLIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SocketURL = ""
	assert.Equal(t, cfg.Validate(), nil)
}

func TestTokenRoundTrip(t *testing.T) {
	ks := newKeyringStore(keyring.NewArrayKeyring(nil))

	_, err := ks.GetToken()
	assert.Equal(t, err, ErrNoToken)

	assert.Equal(t, ks.SetToken("abc"), nil)
	tok, err := ks.GetToken()
	assert.Equal(t, err, nil)
	assert.Equal(t, tok, "abc")
}
