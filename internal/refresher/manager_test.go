package refresher_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"logsnap/internal/config"
	"logsnap/internal/logging"
	"logsnap/internal/refresher"
	"logsnap/internal/scan"
	"logsnap/internal/snapshot"
	"logsnap/internal/tailer"
	"logsnap/internal/testsupport"
)

func newManager(t *testing.T, cfg *config.Config) (*refresher.Manager, *snapshot.Store) {
	t.Helper()
	st := testsupport.MustOpenStore(t, cfg)
	snap := snapshot.NewStore()
	mgr := refresher.New(cfg, tailer.OSFileSource{}, snap, st, logging.NewNop(), nil)
	return mgr, snap
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRefreshNowProducesLines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "app.log", "AAAA\nBBBB\nCCCC\n")
	cfg.Tail.Fraction = 0.6
	mgr, snap := newManager(t, cfg)

	lines, err := mgr.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Index != 1 || lines[0].Text != "CCCC" {
		t.Fatalf("unexpected lines: %#v", lines)
	}

	if got := snap.Lines(); len(got) != 1 || got[0].Text != "CCCC" {
		t.Fatalf("snapshot not updated: %#v", got)
	}
	info := snap.Info()
	if info.Window.Offset != 6 || info.Window.Length != 9 {
		t.Fatalf("unexpected window: %+v", info.Window)
	}
}

func TestRefreshNowIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "app.log", "one\ntwo\nthree\nfour\n")
	mgr, _ := newManager(t, cfg)
	ctx := context.Background()

	first, err := mgr.RefreshNow(ctx)
	if err != nil {
		t.Fatalf("first RefreshNow failed: %v", err)
	}
	second, err := mgr.RefreshNow(ctx)
	if err != nil {
		t.Fatalf("second RefreshNow failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("line counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("line %d differs: %#v vs %#v", i, first[i], second[i])
		}
	}
}

func TestRefreshNowPersistsToStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "app.log", "alpha\nbeta\ngamma\n")
	st := testsupport.MustOpenStore(t, cfg)
	mgr := refresher.New(cfg, tailer.OSFileSource{}, snapshot.NewStore(), st, logging.NewNop(), nil)
	ctx := context.Background()

	lines, err := mgr.RefreshNow(ctx)
	if err != nil {
		t.Fatalf("RefreshNow failed: %v", err)
	}

	stored, err := st.Lines(ctx, 0)
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(stored) != len(lines) {
		t.Fatalf("store has %d lines, refresh produced %d", len(stored), len(lines))
	}
	meta, err := st.LastRefresh(ctx)
	if err != nil || meta == nil {
		t.Fatalf("missing refresh metadata: %v", err)
	}
	if meta.LineCount != len(lines) {
		t.Fatalf("metadata line count %d, want %d", meta.LineCount, len(lines))
	}
}

func TestRefreshNowMissingFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr, _ := newManager(t, cfg)

	_, err := mgr.RefreshNow(context.Background())
	if !errors.Is(err, tailer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshNowAmbiguousFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "a.log", "x\n")
	testsupport.WriteLogFile(t, cfg, "b.log", "y\n")
	mgr, _ := newManager(t, cfg)

	_, err := mgr.RefreshNow(context.Background())
	if !errors.Is(err, tailer.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}
}

func TestLineTooLongAbortsWholeTick(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxLineBytes(100))
	cfg.Tail.Fraction = 1.0
	oversized := "short\n" + strings.Repeat("x", 150) + "\nafter\n"
	testsupport.WriteLogFile(t, cfg, "app.log", oversized)
	st := testsupport.MustOpenStore(t, cfg)
	snap := snapshot.NewStore()
	mgr := refresher.New(cfg, tailer.OSFileSource{}, snap, st, logging.NewNop(), nil)
	ctx := context.Background()

	_, err := mgr.RefreshNow(ctx)
	if !errors.Is(err, scan.ErrLineTooLong) {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}

	// All-or-nothing: nothing reaches the sink on a failed tick.
	count, err := st.CountLines(ctx)
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("sink received %d lines from a failed refresh", count)
	}
	if len(snap.Lines()) != 0 {
		t.Fatal("snapshot updated by a failed refresh")
	}
}

func TestEmptyFileYieldsZeroLines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "app.log", "")
	mgr, _ := newManager(t, cfg)

	lines, err := mgr.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow on empty file failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected zero lines, got %d", len(lines))
	}
}

func TestStartRefreshesAndWakes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tail.RefreshIntervalSeconds = 3600 // only explicit wakes during the test
	path := testsupport.WriteLogFile(t, cfg, "app.log", "one\ntwo\nthree\nfour\nfive\nsix\n")
	mgr, snap := newManager(t, cfg)

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mgr.Stop()

	waitFor(t, "initial refresh", func() bool {
		return snap.Info().LineCount > 0
	})

	testsupport.AppendLogFile(t, path, "seven\n")
	mgr.Wake()

	waitFor(t, "woken refresh to observe append", func() bool {
		lines := snap.Lines()
		return len(lines) > 0 && lines[len(lines)-1].Text == "seven"
	})
}

// blockingSource stalls ReadRange until released so tests can park a
// refresh mid-read.
type blockingSource struct {
	content []byte
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) Stat(string) (int64, error) {
	return int64(len(b.content)), nil
}

func (b *blockingSource) ReadRange(_ string, offset, length int64) ([]byte, error) {
	close(b.entered)
	<-b.release
	return b.content[offset : offset+length], nil
}

func TestStopLetsInFlightRefreshFinish(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFraction(1.0))
	cfg.Tail.RefreshIntervalSeconds = 3600
	testsupport.WriteLogFile(t, cfg, "app.log", "one\ntwo\n")

	src := &blockingSource{
		content: []byte("one\ntwo\n"),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	st := testsupport.MustOpenStore(t, cfg)
	snap := snapshot.NewStore()
	mgr := refresher.New(cfg, src, snap, st, logging.NewNop(), nil)

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Park the initial refresh inside the read, then request shutdown while
	// it is still in flight.
	<-src.entered
	stopped := make(chan struct{})
	go func() {
		mgr.Stop()
		close(stopped)
	}()
	time.Sleep(50 * time.Millisecond)
	close(src.release)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}

	// The refresh that was in flight at shutdown must have completed: sink
	// and snapshot hold the same generation and no error was recorded.
	count, err := st.CountLines(context.Background())
	if err != nil {
		t.Fatalf("CountLines failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("sink has %d lines after shutdown, want 2", count)
	}
	if got := snap.Lines(); len(got) != 2 {
		t.Fatalf("snapshot has %d lines after shutdown, want 2", len(got))
	}
	if status := mgr.Status(); status.LastError != "" {
		t.Fatalf("refresh at shutdown recorded error: %q", status.LastError)
	}
}

func TestStopIsTerminal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLogFile(t, cfg, "app.log", "line\n")
	mgr, _ := newManager(t, cfg)

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	mgr.Stop()

	if status := mgr.Status(); status.State != refresher.StateShuttingDown {
		t.Fatalf("state after Stop = %v, want shutting down", status.State)
	}
	if _, err := mgr.RefreshNow(context.Background()); err == nil {
		t.Fatal("RefreshNow should fail after shutdown")
	}
	if err := mgr.Start(context.Background()); err == nil {
		t.Fatal("Start should fail after shutdown")
	}
}

func TestNotifyConfigChangedAppliesNextTick(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tail.RefreshIntervalSeconds = 3600
	testsupport.WriteLogFile(t, cfg, "app.log", "a\nb\nc\nd\n")

	reloaded := *cfg
	reloaded.Tail.Fraction = 1.0
	reloaded.Tail.RefreshIntervalSeconds = 1800

	st := testsupport.MustOpenStore(t, cfg)
	snap := snapshot.NewStore()
	mgr := refresher.New(cfg, tailer.OSFileSource{}, snap, st, logging.NewNop(), func() (*config.Config, error) {
		return &reloaded, nil
	})

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mgr.Stop()

	waitFor(t, "initial refresh", func() bool {
		return !mgr.Status().RefreshedAt.IsZero()
	})
	if mgr.Status().Fraction != 0.5 {
		t.Fatalf("initial fraction = %v, want 0.5", mgr.Status().Fraction)
	}

	mgr.NotifyConfigChanged()
	waitFor(t, "config reload", func() bool {
		return mgr.Status().Fraction == 1.0
	})
	if got := mgr.Status().Interval; got != 1800*time.Second {
		t.Fatalf("interval after reload = %v, want 30m", got)
	}

	// The next tick reads the whole file under the new fraction.
	lines, err := mgr.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow failed: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines at fraction 1.0, got %d", len(lines))
	}
}

func TestStatusBeforeFirstRefresh(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mgr, _ := newManager(t, cfg)

	status := mgr.Status()
	if status.State != refresher.StateIdle {
		t.Fatalf("initial state = %v, want idle", status.State)
	}
	if status.LineCount != 0 || !status.RefreshedAt.IsZero() {
		t.Fatalf("unexpected initial status: %+v", status)
	}
}
