package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	withEnv(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseURL: https://a\nusername: one\npassword: p\n"), 0600))

	var latest atomic.Value
	w := NewWatcher(path, func(cfg *Config) {
		latest.Store(cfg.Username)
	})
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("baseURL: https://a\nusername: two\npassword: p\n"), 0600))

	assert.Eventually(t, func() bool {
		v, _ := latest.Load().(string)
		return v == "two"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresInvalidConfig(t *testing.T) {
	withEnv(t, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseURL: https://a\nusername: one\npassword: p\n"), 0600))

	var calls atomic.Int32
	w := NewWatcher(path, func(*Config) { calls.Add(1) })
	w.debounce = 10 * time.Millisecond
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("baseURL: https://a\n"), 0600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"), nil)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
