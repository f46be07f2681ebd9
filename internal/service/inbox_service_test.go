package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestInboxWatcher(t *testing.T) {
	dir := t.TempDir()
	store := &memStore{}
	w := NewInboxWatcher(dir, 2, newTestIngestService(store), zap.NewNop())
	w.debounce = 50 * time.Millisecond

	// Present before start: picked up by the initial scan.
	if err := os.WriteFile(filepath.Join(dir, "aws.xml"), fixture(t, "cii_minimal.xml"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden.xml"), fixture(t, "cii_minimal.xml"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, 5*time.Second, func() bool {
		return exists(filepath.Join(dir, processedDirName, "aws.xml"))
	})

	// Dropped while running.
	if err := os.WriteFile(filepath.Join(dir, "buero.xml"), fixture(t, "ubl_minimal.xml"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "leer.pdf"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 5*time.Second, func() bool {
		return exists(filepath.Join(dir, processedDirName, "buero.xml")) &&
			exists(filepath.Join(dir, failedDirName, "leer.pdf"))
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher did not stop")
	}

	routes := map[string]string{}
	for _, r := range store.savedReceipts() {
		routes[r.FileName] = r.Route
	}
	if len(routes) != 2 || routes["aws.xml"] != "xml-cii" || routes["buero.xml"] != "xml-ubl" {
		t.Fatalf("unexpected receipts %v", routes)
	}
	if !exists(filepath.Join(dir, ".hidden.xml")) {
		t.Fatalf("hidden files must be left alone")
	}
}

func TestCandidate(t *testing.T) {
	for name, want := range map[string]bool{
		"rechnung.pdf":        true,
		"scan.JPG":            true,
		".DS_Store":           false,
		"~$mappe.xlsx":        false,
		"rechnung.pdf.part":   false,
		"download.crdownload": false,
		"upload.TMP":          false,
	} {
		if got := candidate(name); got != want {
			t.Fatalf("candidate(%q): expected %v got %v", name, want, got)
		}
	}
}
