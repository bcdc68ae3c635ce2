package engine

import "minerbot.gg/internal/protocol"

// handlePerformMaintenance services a robot through the collection
// collaborator (which debits the maintenance fee on its side) and resets
// the engine-local maintenance mirror that drives the decay curve and the
// session-start gate.
func (e *Engine) handlePerformMaintenance(addr string, robotID uint64, now int64) protocol.ResultMsg {
	p, reason := e.guardPlayerOp(addr, robotID, now)
	if reason != "" {
		return reject("", reason)
	}
	if err := e.robots.PerformMaintenance(robotID, addr); err != nil {
		e.log.Printf("maintenance: robot %d: %v", robotID, err)
		return reject("", protocol.ErrPaymentFailed)
	}
	e.lastMaintenance[robotID] = now
	p.LastActivity = now
	e.emitAudit(AuditEntry{At: now, Op: "MAINTENANCE", Player: addr, RobotID: robotID})
	return ok("", map[string]any{"robot_id": robotID, "maintained_at": now})
}
