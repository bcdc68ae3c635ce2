package engine

import (
	"minerbot.gg/internal/game/engine/logic/rates"
	"minerbot.gg/internal/game/engine/logic/rewards"
	"minerbot.gg/internal/protocol"
)

// handleClaim settles one claim window. Order matters: everything that can
// reject runs before the mint, and state is committed only once the mint has
// succeeded, so a failed claim leaves the engine exactly as it found it.
// The one deliberate exception is the energy auto-stop, which is a
// successful transaction that closes the session instead of rewarding it.
func (e *Engine) handleClaim(addr string, robotID, zoneID uint64, now int64) protocol.ResultMsg {
	p, reason := e.guardPlayerOp(addr, robotID, now)
	if reason != "" {
		return reject("", reason)
	}
	s := e.sessions[SessionKey{RobotID: robotID, ZoneID: zoneID}]
	if s == nil || !s.Active {
		return reject("", protocol.ErrNoActiveSession)
	}
	elapsed := now - s.LastClaimAt
	if elapsed < e.cfg.ClaimQuantumSeconds {
		return reject("", protocol.ErrClaimTooSoon)
	}
	kept, allowed := rates.Allow(now, p.ClaimStamps, e.cfg.ClaimsPerHour)
	if !allowed {
		p.ClaimStamps = kept
		return reject("", protocol.ErrRateLimit)
	}

	z := e.zones[zoneID]
	e.touchEnergy(p, now)
	required := energyForWindow(z, elapsed)
	if p.Energy < required {
		// Graceful degradation: the claim succeeds but ends the session with
		// no reward for the unaffordable window.
		e.closeSession(s)
		p.ClaimStamps = append(kept, now)
		p.LastActivity = now
		e.penalize(p, now)
		e.emitAudit(AuditEntry{At: now, Op: "AUTO_STOP", Player: addr, RobotID: robotID, ZoneID: zoneID, Detail: "insufficient energy"})
		return ok("", map[string]any{"stopped": true, "primary": int64(0), "secondary": int64(0)})
	}

	info, err := e.robots.RobotInfo(robotID)
	if err != nil {
		e.log.Printf("claim: robot info %d: %v", robotID, err)
		return reject("", protocol.ErrInternal)
	}
	eventPct := e.activeEventPct(now)
	decayPct := rewards.DecayPct(e.lastMaintenance[robotID], now, e.cfg.MaintenanceInterval)
	primary, secondary := rewards.Compute(z.BaseRewardPerHour, elapsed, info, eventPct, decayPct)

	if err := e.token.MintGameRewards(addr, primary); err != nil {
		e.log.Printf("claim: mint for %s failed: %v", addr, err)
		return reject("", protocol.ErrMintFailed)
	}

	// Mint succeeded; commit the whole claim.
	p.Energy -= required
	p.ClaimStamps = append(kept, now)
	p.TotalPrimary += primary
	p.TotalSecondary += secondary
	p.TotalEnergySpent += required
	p.LastActivity = now
	s.LastClaimAt = now
	s.EnergySpent += required
	s.PrimaryMined += primary
	s.SecondaryMined += secondary
	e.bumpReputation(p, 1)

	// XP grant is best-effort: the collection may refuse, the claim stands.
	xp := e.cfg.XPPerHour * (elapsed / 3600)
	if err := e.robots.AddExperience(robotID, xp); err != nil {
		e.log.Printf("claim: xp grant for robot %d failed: %v", robotID, err)
	}

	e.emitAudit(AuditEntry{
		At: now, Op: "CLAIM", Player: addr, RobotID: robotID, ZoneID: zoneID,
		Primary: primary, Secondary: secondary, Amount: required,
	})
	return ok("", map[string]any{
		"primary":   primary,
		"secondary": secondary,
		"energy":    p.Energy,
		"event_pct": eventPct,
		"decay_pct": decayPct,
	})
}
