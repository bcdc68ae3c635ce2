package engine

import "minerbot.gg/internal/protocol"

// touchEnergy materializes lazy regeneration for p at now. The anchor only
// advances by whole regeneration periods so sub-period remainders keep
// accruing; repeated touches within the same second are no-ops.
func (e *Engine) touchEnergy(p *Player, now int64) {
	if p.EnergyAnchor == 0 {
		p.EnergyAnchor = now
		return
	}
	if now <= p.EnergyAnchor {
		return
	}
	gained := (now - p.EnergyAnchor) / e.cfg.EnergyRegenSeconds
	if gained <= 0 {
		return
	}
	p.Energy += gained
	if p.Energy > e.cfg.MaxEnergy {
		p.Energy = e.cfg.MaxEnergy
	}
	p.EnergyAnchor += gained * e.cfg.EnergyRegenSeconds
}

// energyForWindow is the energy a zone charges for elapsed seconds of
// mining, floor-divided like every other economic quantity.
func energyForWindow(z *Zone, elapsed int64) int64 {
	return z.EnergyPerHour * elapsed / 3600
}

func (e *Engine) handleBuyEnergy(addr string, amount int64, now int64) protocol.ResultMsg {
	p, reason := e.guardPlayerOp(addr, 0, now)
	if reason != "" {
		return reject("", reason)
	}
	if amount <= 0 || amount > e.cfg.MaxEnergyPurchase {
		return reject("", protocol.ErrBadAmount)
	}
	cost := amount * e.cfg.EnergyPricePerUnit
	if err := e.token.TransferFrom(addr, e.cfg.Treasury, cost); err != nil {
		e.log.Printf("buy energy: transfer from %s failed: %v", addr, err)
		return reject("", protocol.ErrPaymentFailed)
	}
	e.touchEnergy(p, now)
	p.Energy += amount
	if p.Energy > e.cfg.MaxEnergy {
		p.Energy = e.cfg.MaxEnergy
	}
	p.LastActivity = now
	e.emitAudit(AuditEntry{At: now, Op: "BUY_ENERGY", Player: addr, Amount: amount, Cost: cost})
	return ok("", map[string]any{"energy": p.Energy, "cost": cost})
}

func (e *Engine) handleGetPlayer(addr string, now int64) protocol.ResultMsg {
	p := e.player(addr, now)
	e.touchEnergy(p, now)
	return ok("", map[string]any{
		"energy":             p.Energy,
		"reputation":         p.Reputation,
		"suspicious":         p.Suspicious,
		"banned":             p.Banned,
		"total_primary":      p.TotalPrimary,
		"total_secondary":    p.TotalSecondary,
		"total_energy_spent": p.TotalEnergySpent,
		"robots_used":        len(p.RobotsUsed),
		"zones_visited":      len(p.ZonesVisited),
		"last_activity":      p.LastActivity,
	})
}
