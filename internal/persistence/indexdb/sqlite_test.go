package indexdb

import (
	"path/filepath"
	"sync"
	"testing"

	"minerbot.gg/internal/game/engine"
)

func TestSQLiteIndex_WriteAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	entries := []engine.AuditEntry{
		{At: 100, Op: "CLAIM", Player: "0xalice", RobotID: 1, ZoneID: 1, Primary: 108, Secondary: 21},
		{At: 100, Op: "CLAIM", Player: "0xbob", RobotID: 2, ZoneID: 2, Primary: 50, Secondary: 10},
		{At: 200, Op: "CLAIM", Player: "0xalice", RobotID: 1, ZoneID: 1, Primary: 216, Secondary: 43},
		{At: 300, Op: "AUTO_STOP", Player: "0xalice", RobotID: 1, ZoneID: 1},
	}
	for _, e := range entries {
		if err := idx.Write(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	idx.RecordSnapshot("/tmp/engine-1.json", engine.Snapshot{Version: engine.SnapshotVersion, TakenAt: 400})

	// Close drains the queue and commits before the handle is released.
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	claims, err := idx2.Claims("0xalice", 10)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("claims: got %d want 2", len(claims))
	}
	if claims[0].At != 200 || claims[0].Primary != 216 {
		t.Fatalf("newest first: %+v", claims[0])
	}
	if claims[1].At != 100 || claims[1].Primary != 108 {
		t.Fatalf("oldest claim: %+v", claims[1])
	}

	var n int
	if err := idx2.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if n != 1 {
		t.Fatalf("snapshot rows: got %d want 1", n)
	}
}

func TestSQLiteIndex_SameSecondEntriesKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		_ = idx.Write(engine.AuditEntry{At: 500, Op: "CLAIM", Player: "0xalice", Primary: int64(i)})
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	idx2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()
	claims, err := idx2.Claims("0xalice", 10)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	if len(claims) != 5 {
		t.Fatalf("same-second rows: got %d want 5", len(claims))
	}
}

// Writers racing Close must be dropped cleanly, never panic on a closed
// queue.
func TestSQLiteIndex_ConcurrentWritersAndClose(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = idx.Write(engine.AuditEntry{At: int64(i), Op: "CLAIM", Player: "0xalice"})
			}
		}(w)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()
}

func TestSQLiteIndex_WriteAfterClose(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := idx.Write(engine.AuditEntry{At: 1, Op: "CLAIM"}); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	idx.RecordSnapshot("x", engine.Snapshot{})
	if err := idx.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}
