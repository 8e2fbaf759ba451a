package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherTriggersOnChange(t *testing.T) {
	dir := t.TempDir()

	var triggers atomic.Int32
	w := NewWatcher(dir, 50*time.Millisecond, func(context.Context) {
		triggers.Add(1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.ttl"), []byte("<urn:a> <urn:b> <urn:c> ."), 0o600))

	assert.Eventually(t, func() bool {
		return triggers.Load() == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var triggers atomic.Int32
	w := NewWatcher(dir, 150*time.Millisecond, func(context.Context) {
		triggers.Add(1)
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.ttl"), []byte("<urn:a> <urn:b> <urn:c> ."), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return triggers.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)
	// The burst collapsed into one trigger inside the debounce window.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), triggers.Load())
}

func TestWatcherMissingDir(t *testing.T) {
	w := NewWatcher("/nonexistent/watched", 50*time.Millisecond, func(context.Context) {}, nil)
	assert.Error(t, w.Start(context.Background()))
}
