package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-mahjong/internal/storage"
)

// writeConfig writes a watch config into a temp dir and points --config at it.
func writeConfig(t *testing.T, policy string) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rounds.db")
	data := fmt.Sprintf(`round:
  seed: 5
  speed: instant
  wall_limit: 4
  policy: %s
display:
  fps: 1000
log:
  level: warn
storage:
  path: %s
`, policy, dbPath)

	path := filepath.Join(dir, "mahjong.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	prev := flagConfig
	flagConfig = path
	t.Cleanup(func() { flagConfig = prev })
	return dbPath
}

func TestWatchSavesRound(t *testing.T) {
	dbPath := writeConfig(t, "last")

	if err := runWatch(watchCmd, nil); err != nil {
		t.Fatalf("runWatch() failed: %v", err)
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rounds, err := store.RecentRounds(10)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("expected 1 saved round, got %d", len(rounds))
	}
	r := rounds[0]
	if r.Source != "watch" || r.Draws != 4 || r.Reason != "wall exhausted" {
		t.Errorf("saved round = %s/%d/%s, expected watch/4/wall exhausted", r.Source, r.Draws, r.Reason)
	}
}

func TestWatchReturnsErrors(t *testing.T) {
	dbPath := writeConfig(t, "no-such-policy")

	err := runWatch(watchCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown policy") {
		t.Fatalf("runWatch() error = %v, expected an unknown policy error", err)
	}

	// The store was closed on the way out, so it opens cleanly again.
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() after failed watch: %v", err)
	}
	store.Close()
}
