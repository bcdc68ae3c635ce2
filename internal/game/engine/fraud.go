package engine

// bumpReputation adjusts a player's reputation, floored at zero.
func (e *Engine) bumpReputation(p *Player, delta int) {
	p.Reputation += delta
	if p.Reputation < 0 {
		p.Reputation = 0
	}
}

// penalize records one negative signal: reputation down, suspicious counter
// up, and an automatic ban once the counter reaches the threshold. The ban
// holds until an operator unban.
func (e *Engine) penalize(p *Player, now int64) {
	e.bumpReputation(p, -1)
	p.Suspicious++
	if !p.Banned && p.Suspicious >= e.cfg.SuspicionBanCount {
		p.Banned = true
		e.emitAudit(AuditEntry{At: now, Op: "AUTO_BAN", Player: p.Address, Detail: "suspicious activity threshold"})
	}
}
