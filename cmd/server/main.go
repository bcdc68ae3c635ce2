package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"minerbot.gg/internal/game/collab"
	"minerbot.gg/internal/game/engine"
	"minerbot.gg/internal/game/tuning"
	"minerbot.gg/internal/persistence/indexdb"
	persistlog "minerbot.gg/internal/persistence/log"
	"minerbot.gg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <data>/tuning.yaml if present)")
		operator   = flag.String("operator", "op:root", "operator address")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite read-model index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	_ = os.MkdirAll(*dataDir, 0o755)

	cfg := engine.Config{Operator: *operator}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		if p := filepath.Join(*dataDir, "tuning.yaml"); fileExists(p) {
			tp = p
		}
	}
	if tp != "" {
		t, err := tuning.Load(tp)
		if err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
		cfg = configFromTuning(t, *operator)
		logger.Printf("tuning loaded from %s", tp)
	}

	auditLog := persistlog.NewAuditLog(filepath.Join(*dataDir, "audit"))
	defer auditLog.Close()
	sinks := engine.MultiAuditSink{auditLog}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		var err error
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
		sinks = append(sinks, idx)
	}

	// In-process collaborators; a production deployment swaps these for
	// bridges to the deployed robot collection and token.
	robots := collab.NewMemoryRobots()
	token := collab.NewMemoryToken()
	robots.FeeToken = token

	eng, err := engine.New(cfg, robots, token,
		engine.WithLogger(logger),
		engine.WithAuditSink(sinks),
	)
	if err != nil {
		logger.Fatalf("engine: %v", err)
	}

	snapDir := filepath.Join(*dataDir, "snapshots")
	if p := resolveSnapshotPath(*snapPath, *loadLatest, snapDir); p != "" {
		snap, err := readSnapshot(p)
		if err != nil {
			logger.Fatalf("load snapshot %s: %v", p, err)
		}
		if err := eng.ImportSnapshot(snap); err != nil {
			logger.Fatalf("import snapshot %s: %v", p, err)
		}
		logger.Printf("resumed from snapshot %s", p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engineDone := make(chan error, 1)
	go func() { engineDone <- eng.Run(ctx) }()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", ws.NewServer(eng, logger).Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	// Snapshot before stopping the engine goroutine.
	snap := eng.ExportSnapshot()
	if path, err := writeSnapshot(snapDir, snap); err != nil {
		logger.Printf("write snapshot: %v", err)
	} else {
		logger.Printf("snapshot written: %s", path)
		if idx != nil {
			idx.RecordSnapshot(path, snap)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	eng.Stop()
	<-engineDone
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func configFromTuning(t tuning.Tuning, operator string) engine.Config {
	cfg := engine.Config{
		Operator:            operator,
		MaxEnergy:           t.MaxEnergy,
		EnergyRegenSeconds:  t.EnergyRegenSeconds,
		ClaimQuantumSeconds: t.ClaimQuantumSeconds,
		ClaimsPerHour:       t.ClaimsPerHour,
		MaintenanceInterval: t.MaintenanceIntervalS,
		SuspicionBanCount:   t.SuspicionBanCount,
		XPPerHour:           t.XPPerHour,
		EnergyPricePerUnit:  t.EnergyPricePerUnit,
		MaxEnergyPurchase:   t.MaxEnergyPurchase,
	}
	for _, z := range t.SeedZones {
		cfg.SeedZones = append(cfg.SeedZones, engine.ZoneParams{
			Name:              z.Name,
			Class:             z.Class,
			PrimaryResource:   z.PrimaryResource,
			SecondaryResource: z.SecondaryResource,
			BaseRewardPerHour: z.BaseRewardPerHour,
			Difficulty:        z.Difficulty,
			EnergyPerHour:     z.EnergyPerHour,
			MaxMiners:         z.MaxMiners,
		})
	}
	return cfg
}

func resolveSnapshotPath(explicit string, loadLatest bool, snapDir string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	if !loadLatest {
		return ""
	}
	entries, err := os.ReadDir(snapDir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(snapDir, names[len(names)-1])
}

func readSnapshot(path string) (engine.Snapshot, error) {
	var snap engine.Snapshot
	b, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func writeSnapshot(dir string, snap engine.Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("engine-%d.json", snap.TakenAt))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}
