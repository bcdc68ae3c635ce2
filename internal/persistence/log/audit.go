package log

import "minerbot.gg/internal/game/engine"

// AuditLog adapts the JSONL writer to the engine's audit sink.
type AuditLog struct {
	w *JSONLZstdWriter
}

func NewAuditLog(baseDir string) *AuditLog {
	return &AuditLog{w: NewJSONLZstdWriter(baseDir, "audit")}
}

func (a *AuditLog) Write(entry engine.AuditEntry) error {
	return a.w.Write(entry)
}

func (a *AuditLog) Close() error {
	return a.w.Close()
}
