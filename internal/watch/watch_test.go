package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	reasons []Reason
}

func (r *recorder) handle(_ context.Context, reason Reason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) all() Reason {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out Reason
	for _, reason := range r.reasons {
		out |= reason
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reasons)
}

func setup(t *testing.T) (configPath, contentDir string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "docnav.yaml")
	contentDir = filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "guides"), 0o755))
	require.NoError(t, os.WriteFile(configPath, []byte("sidebar: []\n"), 0o600))
	return configPath, contentDir
}

func start(t *testing.T, opts Options, rec *recorder) {
	t.Helper()
	w, err := New(opts, rec.handle)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	// Give the watcher a moment to register its directories.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_ContentChangesAreDebounced(t *testing.T) {
	configPath, contentDir := setup(t)
	rec := &recorder{}
	start(t, Options{ConfigPath: configPath, ContentDir: contentDir, Debounce: 200 * time.Millisecond}, rec)

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, "guides", "a.md"), []byte{byte('a' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, ReasonContent, rec.all())
}

func TestWatcher_ConfigChange(t *testing.T) {
	configPath, contentDir := setup(t)
	rec := &recorder{}
	start(t, Options{ConfigPath: configPath, ContentDir: contentDir, Debounce: 50 * time.Millisecond}, rec)

	require.NoError(t, os.WriteFile(configPath, []byte("sidebar: [intro]\n"), 0o600))

	require.Eventually(t, func() bool { return rec.all().Has(ReasonConfig) }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_HiddenFilesIgnored(t *testing.T) {
	configPath, contentDir := setup(t)
	rec := &recorder{}
	start(t, Options{ConfigPath: configPath, ContentDir: contentDir, Debounce: 50 * time.Millisecond}, rec)

	require.NoError(t, os.WriteFile(filepath.Join(contentDir, ".a.md.swp"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(configPath), "other.yaml"), []byte("x"), 0o600))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	configPath, contentDir := setup(t)
	rec := &recorder{}
	start(t, Options{ConfigPath: configPath, ContentDir: contentDir, Debounce: 50 * time.Millisecond}, rec)

	newDir := filepath.Join(contentDir, "reference")
	require.NoError(t, os.Mkdir(newDir, 0o755))
	require.Eventually(t, func() bool { return rec.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
	seen := rec.count()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(newDir, "api.md"), []byte("# api\n"), 0o600))
	require.Eventually(t, func() bool { return rec.count() > seen }, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_Interval(t *testing.T) {
	configPath, contentDir := setup(t)
	rec := &recorder{}
	start(t, Options{ConfigPath: configPath, ContentDir: contentDir, Interval: 100 * time.Millisecond}, rec)

	require.Eventually(t, func() bool { return rec.all().Has(ReasonInterval) }, 3*time.Second, 20*time.Millisecond)
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "none", Reason(0).String())
	assert.Equal(t, "content+interval", (ReasonContent | ReasonInterval).String())
}

func TestNew_MissingContentDir(t *testing.T) {
	configPath, _ := setup(t)
	w, err := New(Options{ConfigPath: configPath, ContentDir: filepath.Join(t.TempDir(), "absent")}, func(context.Context, Reason) {})
	require.NoError(t, err)
	require.Error(t, w.Run(t.Context()))
}
