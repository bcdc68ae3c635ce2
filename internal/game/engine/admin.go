package engine

import "minerbot.gg/internal/protocol"

func (e *Engine) handleBan(caller, target string, banned bool) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject("", protocol.ErrNotOperator)
	}
	if target == "" {
		return reject("", protocol.ErrBadRequest)
	}
	p := e.player(target, e.now())
	p.Banned = banned
	if !banned {
		// An unban also clears the counter so the next slip does not
		// instantly re-ban.
		p.Suspicious = 0
	}
	op := "BAN"
	if !banned {
		op = "UNBAN"
	}
	e.emitAudit(AuditEntry{At: e.now(), Op: op, Player: target})
	return ok("", map[string]any{"player": target, "banned": banned})
}

func (e *Engine) handleSetPaused(caller string, paused bool) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject("", protocol.ErrNotOperator)
	}
	e.paused = paused
	op := "PAUSE"
	if !paused {
		op = "UNPAUSE"
	}
	e.emitAudit(AuditEntry{At: e.now(), Op: op})
	return ok("", map[string]any{"paused": paused})
}

// handleEmergencyWithdraw drains the treasury (energy-purchase proceeds)
// to the operator account.
func (e *Engine) handleEmergencyWithdraw(caller string) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject("", protocol.ErrNotOperator)
	}
	balance, err := e.token.BalanceOf(e.cfg.Treasury)
	if err != nil {
		e.log.Printf("emergency withdraw: balance: %v", err)
		return reject("", protocol.ErrInternal)
	}
	if balance > 0 {
		if err := e.token.TransferFrom(e.cfg.Treasury, e.cfg.Operator, balance); err != nil {
			e.log.Printf("emergency withdraw: transfer: %v", err)
			return reject("", protocol.ErrInternal)
		}
	}
	e.emitAudit(AuditEntry{At: e.now(), Op: "EMERGENCY_WITHDRAW", Amount: balance})
	return ok("", map[string]any{"withdrawn": balance})
}
