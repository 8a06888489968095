package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) cb(locale, sum string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, locale+":"+sum)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, locales ...string) (string, *recorder) {
	t.Helper()
	dir, files := testutil.TestData(t)
	catalog := portfolio.NewCatalog(files, locales)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	rec := &recorder{}
	go func() {
		defer close(done)
		if err := Watch(ctx, files, catalog, logger, rec.cb); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return dir, rec
}

func TestWatch_ReportsLocaleAndChecksum(t *testing.T) {
	dir, rec := startWatcher(t, "es")

	body := []byte(`{"personalInfo":{"name":"Ana"}}`)
	if err := os.WriteFile(filepath.Join(dir, "portfolio.es.json"), body, 0o644); err != nil {
		t.Fatal(err)
	}

	want := "es:" + checksum.Sum(body)
	eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
		for _, e := range rec.snapshot() {
			if e == want {
				return true
			}
		}
		return false
	}, "change to portfolio.es.json not reported")
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir, rec := startWatcher(t)

	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "portfolio.json.lock"), nil, 0o644)
	_ = os.WriteFile(filepath.Join(dir, "portfolio.fr.json"), []byte("{}"), 0o644)

	time.Sleep(3 * Debounce)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("unexpected events %v", got)
	}
}

func TestWatch_SameContentReportedOnce(t *testing.T) {
	dir, rec := startWatcher(t)
	path := filepath.Join(dir, "portfolio.json")

	_ = os.WriteFile(path, []byte("{}"), 0o644)
	eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
		return len(rec.snapshot()) == 1
	}, "first write not reported")

	_ = os.WriteFile(path, []byte("{}"), 0o644)
	time.Sleep(3 * Debounce)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("rewrite of identical content reported: %v", got)
	}
}

func TestWatch_RemovalReportsEmptySum(t *testing.T) {
	dir, rec := startWatcher(t)
	path := filepath.Join(dir, "portfolio.json")

	_ = os.WriteFile(path, []byte("{}"), 0o644)
	eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
		return len(rec.snapshot()) == 1
	}, "write not reported")

	_ = os.Remove(path)
	eventually(t, 3*time.Second, 25*time.Millisecond, func() bool {
		got := rec.snapshot()
		return len(got) == 2 && got[1] == ":"
	}, "removal not reported")
}
