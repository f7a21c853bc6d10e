package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/readiness-dashboard/internal/domain/readiness"
	"github.com/turtacn/readiness-dashboard/internal/testutil"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

func newTestStore(t *testing.T, cfg StoreConfig) *Store {
	t.Helper()
	return NewStore(cfg, newTestLoader(), nil, nil)
}

func TestStore_CurrentBeforeLoad(t *testing.T) {
	s := newTestStore(t, StoreConfig{PrimaryPath: "unused.csv"})
	assert.False(t, s.Ready())
	_, err := s.Current()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetNotLoaded))
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, StoreConfig{
		PrimaryPath:   writeFile(t, dir, "data.csv", primaryCSV),
		SecondaryPath: writeFile(t, dir, "bar_data.csv", secondaryCSV),
	})

	ds, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Ready())

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, ds, cur)
	assert.Equal(t, 3, cur.Table.Len())
	assert.Equal(t, 2, cur.Bars.Len())
}

func TestStore_LoadMissingPrimary(t *testing.T) {
	s := newTestStore(t, StoreConfig{PrimaryPath: filepath.Join(t.TempDir(), "data.csv")})
	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetLoadFailed))
	assert.False(t, s.Ready())
}

func TestStore_ReloadSwapsVersionAndRunsHooks(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.csv", primaryCSV)
	s := newTestStore(t, StoreConfig{PrimaryPath: p})

	var calls []string
	s.OnReload(func(_ context.Context, prev, next *readiness.Dataset) {
		if prev == nil {
			calls = append(calls, "initial")
			return
		}
		calls = append(calls, prev.Version+"->"+next.Version)
	})

	first, err := s.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p, []byte(primaryCSV+"Asia,Korea,300,2,4,Medium\n"), 0o600))
	second, err := s.Reload(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Version, second.Version)
	assert.Equal(t, 4, second.Table.Len())
	assert.Equal(t, 3, first.Table.Len(), "published snapshots are immutable")
	assert.Equal(t, []string{"initial", first.Version + "->" + second.Version}, calls)
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.csv", primaryCSV)
	logger := testutil.NewMockLogger()
	s := NewStore(StoreConfig{PrimaryPath: p}, newTestLoader(), nil, logger)
	first, err := s.Load(context.Background())
	require.NoError(t, err)

	hooked := false
	s.OnReload(func(context.Context, *readiness.Dataset, *readiness.Dataset) { hooked = true })

	require.NoError(t, os.WriteFile(p, []byte("Region,Country\nA,B\n"), 0o600))
	_, err = s.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetColumnMissing))
	assert.False(t, hooked)
	e, ok := logger.Find("error", "dataset load failed")
	require.True(t, ok)
	assert.Equal(t, "dataset", e.Logger)
	table, _ := e.Field("table")
	assert.Equal(t, "primary", table)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, first, cur)
}

func TestStore_FailedSecondaryKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	bars := writeFile(t, dir, "bar_data.csv", secondaryCSV)
	s := newTestStore(t, StoreConfig{PrimaryPath: writeFile(t, dir, "data.csv", primaryCSV), SecondaryPath: bars})
	first, err := s.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(bars))
	_, err = s.Reload(context.Background())
	require.Error(t, err)

	cur, _ := s.Current()
	assert.Same(t, first, cur)
}

func TestStore_ConcurrentReloadsPublishConsistentSnapshots(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.csv", primaryCSV)
	s := newTestStore(t, StoreConfig{PrimaryPath: p})
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	var hooks atomic.Int32
	s.OnReload(func(context.Context, *readiness.Dataset, *readiness.Dataset) { hooks.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := s.Reload(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 3, ds.Table.Len())
			cur, err := s.Current()
			assert.NoError(t, err)
			assert.Equal(t, 3, cur.Table.Len())
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, hooks.Load(), int32(1))
	assert.LessOrEqual(t, hooks.Load(), int32(16))
}

func TestStore_CancelledCallerDoesNotAbortSharedReload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		_, _ = w.Write([]byte(primaryCSV))
	}))
	defer srv.Close()

	loader := NewLoader(LoaderConfig{HTTPClient: srv.Client()}, nil)
	s := NewStore(StoreConfig{PrimaryPath: srv.URL + "/data.csv"}, loader, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.Reload(ctx)
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		_, err := s.Reload(context.Background())
		second <- err
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(release)
	require.NoError(t, <-second)
	assert.True(t, s.Ready())
}

func TestStore_RunInterval(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.csv", primaryCSV)
	s := newTestStore(t, StoreConfig{PrimaryPath: p, ReloadInterval: 20 * time.Millisecond})
	first, err := s.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		cur, _ := s.Current()
		return cur.Version != first.Version
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStore_RunWatch(t *testing.T) {
	p := writeFile(t, t.TempDir(), "data.csv", primaryCSV)
	s := newTestStore(t, StoreConfig{PrimaryPath: p, Watch: true, Debounce: 10 * time.Millisecond})
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(p, []byte(primaryCSV+"Asia,Korea,300,2,4,Medium\n"), 0o600))

	require.Eventually(t, func() bool {
		cur, _ := s.Current()
		return cur.Table.Len() == 4
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestStore_WatchMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "data.csv")
	s := newTestStore(t, StoreConfig{PrimaryPath: missing, Watch: true})
	w, err := s.newWatcher()
	require.Error(t, err)
	assert.Nil(t, w)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
	assert.Contains(t, err.Error(), "failed to watch dataset directory")
}

func TestStore_RunIdleReturnsOnCancel(t *testing.T) {
	s := newTestStore(t, StoreConfig{PrimaryPath: "s3://bucket/data.csv", Watch: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

//Personal.AI order the ending
