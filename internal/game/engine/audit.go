package engine

// AuditEntry is one structured record of a state-changing operation,
// consumed by the persistence sinks (zstd JSONL log, sqlite index).
type AuditEntry struct {
	At      int64  `json:"at"`
	Op      string `json:"op"`
	Player  string `json:"player,omitempty"`
	RobotID uint64 `json:"robot_id,omitempty"`
	ZoneID  uint64 `json:"zone_id,omitempty"`

	Primary   int64  `json:"primary,omitempty"`
	Secondary int64  `json:"secondary,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Cost      int64  `json:"cost,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type AuditSink interface {
	Write(AuditEntry) error
}

// MultiAuditSink fans one entry out to several sinks; the first error wins
// but every sink still sees the entry.
type MultiAuditSink []AuditSink

func (m MultiAuditSink) Write(entry AuditEntry) error {
	var firstErr error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// emitAudit is log-and-continue: a sink failure never fails the operation
// that produced the entry.
func (e *Engine) emitAudit(entry AuditEntry) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Write(entry); err != nil {
		e.log.Printf("audit: %s: %v", entry.Op, err)
	}
}
