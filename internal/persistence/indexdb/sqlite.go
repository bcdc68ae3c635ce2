package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"minerbot.gg/internal/game/engine"
)

// SQLiteIndex is a secondary read-model: claim history, session lifecycle
// events, and snapshot metadata. Writes are queued to a single writer
// goroutine so the engine never blocks on disk; when the queue is full the
// entry is dropped (the JSONL audit log remains the source of truth).
type SQLiteIndex struct {
	db *sql.DB

	ch chan req
	wg sync.WaitGroup

	// mu orders queue sends against Close so a late writer can never hit
	// a closed channel.
	mu     sync.RWMutex
	closed bool
}

type reqKind int

const (
	reqAudit reqKind = iota + 1
	reqSnapshot
)

type req struct {
	kind     reqKind
	audit    engine.AuditEntry
	snapshot snapshotRow
}

type snapshotRow struct {
	TakenAt  int64
	Path     string
	Zones    int
	Sessions int
	Players  int
	Events   int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL durability is
	// fine for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audits (
			at INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			op TEXT NOT NULL,
			player TEXT,
			robot_id INTEGER,
			zone_id INTEGER,
			primary_amt INTEGER,
			secondary_amt INTEGER,
			amount INTEGER,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (at, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_player_at ON audits(player, at);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_robot_at ON audits(robot_id, at);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_op_at ON audits(op, at);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			taken_at INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			zones INTEGER NOT NULL,
			sessions INTEGER NOT NULL,
			players INTEGER NOT NULL,
			events INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	s.wg.Wait()
	return s.db.Close()
}

// enqueue drops the request when the index is closed or the queue is full.
func (s *SQLiteIndex) enqueue(r req) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
	}
}

// Write implements engine.AuditSink.
func (s *SQLiteIndex) Write(entry engine.AuditEntry) error {
	if s == nil {
		return nil
	}
	s.enqueue(req{kind: reqAudit, audit: entry})
	return nil
}

func (s *SQLiteIndex) RecordSnapshot(path string, snap engine.Snapshot) {
	if s == nil {
		return
	}
	s.enqueue(req{kind: reqSnapshot, snapshot: snapshotRow{
		TakenAt:  snap.TakenAt,
		Path:     path,
		Zones:    len(snap.Zones),
		Sessions: len(snap.Sessions),
		Players:  len(snap.Players),
		Events:   len(snap.Events),
	}})
}

// Claims returns the most recent CLAIM rows for a player, newest first.
func (s *SQLiteIndex) Claims(player string, limit int) ([]engine.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT raw_json FROM audits WHERE op='CLAIM' AND player=? ORDER BY at DESC, seq DESC LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.AuditEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e engine.AuditEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertAudit, _ := s.db.Prepare(`INSERT OR REPLACE INTO audits(at,seq,op,player,robot_id,zone_id,primary_amt,secondary_amt,amount,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(taken_at,path,zones,sessions,players,events) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertAudit != nil {
			_ = insertAudit.Close()
		}
		if insertSnapshot != nil {
			_ = insertSnapshot.Close()
		}
	}()

	var (
		tx          *sql.Tx
		opCount     int
		lastCommit  = time.Now()
		commitEvery = 500
		commitWait  = 2 * time.Second

		lastAt int64
		seq    int
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqAudit:
			if insertAudit == nil {
				break
			}
			if r.audit.At != lastAt {
				lastAt = r.audit.At
				seq = 0
			}
			seq++
			b, _ := json.Marshal(r.audit)
			if _, err := tx.Stmt(insertAudit).Exec(
				r.audit.At, seq, r.audit.Op, r.audit.Player,
				int64(r.audit.RobotID), int64(r.audit.ZoneID),
				r.audit.Primary, r.audit.Secondary, r.audit.Amount,
				string(b),
			); err != nil {
				rollback()
				continue
			}
			opCount++
		case reqSnapshot:
			if insertSnapshot == nil {
				break
			}
			if _, err := tx.Stmt(insertSnapshot).Exec(
				r.snapshot.TakenAt, r.snapshot.Path,
				r.snapshot.Zones, r.snapshot.Sessions,
				r.snapshot.Players, r.snapshot.Events,
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitWait {
			commit()
		}
	}
	commit()
}
