package engine

import (
	"minerbot.gg/internal/game/engine/logic/rewards"
	"minerbot.gg/internal/protocol"
)

func (e *Engine) handleStartMining(addr string, robotID, zoneID uint64, now int64) protocol.ResultMsg {
	p, reason := e.guardPlayerOp(addr, robotID, now)
	if reason != "" {
		return reject("", reason)
	}
	z := e.zone(zoneID)
	if z == nil {
		return reject("", protocol.ErrZoneNotFound)
	}
	if !z.Active {
		return reject("", protocol.ErrZoneInactive)
	}
	if z.CurrentMiners >= z.MaxMiners {
		return reject("", protocol.ErrZoneFull)
	}
	if e.activeZone[robotID] != 0 {
		return reject("", protocol.ErrAlreadyMining)
	}
	e.touchEnergy(p, now)
	if p.Energy < z.EnergyPerHour {
		return reject("", protocol.ErrNotEnoughEnergy)
	}
	info, err := e.robots.RobotInfo(robotID)
	if err != nil {
		e.log.Printf("start mining: robot info %d: %v", robotID, err)
		return reject("", protocol.ErrInternal)
	}
	if !rewards.SuitableFor(info, z.Difficulty) {
		return reject("", protocol.ErrRobotUnsuitable)
	}
	last := e.lastMaintenance[robotID]
	if last == 0 || now-last > e.cfg.MaintenanceInterval {
		return reject("", protocol.ErrMaintenanceOverdue)
	}

	key := SessionKey{RobotID: robotID, ZoneID: zoneID}
	e.sessions[key] = &MiningSession{
		RobotID:     robotID,
		ZoneID:      zoneID,
		Owner:       addr,
		StartedAt:   now,
		LastClaimAt: now,
		Active:      true,
	}
	e.activeZone[robotID] = zoneID
	z.CurrentMiners++
	p.RobotsUsed[robotID] = true
	p.ZonesVisited[zoneID] = true
	p.LastActivity = now
	e.emitAudit(AuditEntry{At: now, Op: "START_MINING", Player: addr, RobotID: robotID, ZoneID: zoneID})
	return ok("", map[string]any{"zone_id": zoneID, "started_at": now})
}

func (e *Engine) handleStopMining(addr string, robotID, zoneID uint64, now int64) protocol.ResultMsg {
	p, reason := e.guardPlayerOp(addr, robotID, now)
	if reason != "" {
		return reject("", reason)
	}
	s := e.sessions[SessionKey{RobotID: robotID, ZoneID: zoneID}]
	if s == nil || !s.Active {
		return reject("", protocol.ErrNoActiveSession)
	}
	// Time since the last claim is forfeited; accrual simply stops.
	e.closeSession(s)
	p.LastActivity = now
	e.emitAudit(AuditEntry{At: now, Op: "STOP_MINING", Player: addr, RobotID: robotID, ZoneID: zoneID})
	return ok("", map[string]any{
		"primary_mined":   s.PrimaryMined,
		"secondary_mined": s.SecondaryMined,
		"energy_spent":    s.EnergySpent,
	})
}

// closeSession transitions a session to Closed and frees its zone slot.
// Used by explicit stops and by the claim path's energy auto-stop.
func (e *Engine) closeSession(s *MiningSession) {
	s.Active = false
	delete(e.activeZone, s.RobotID)
	if z := e.zones[s.ZoneID]; z != nil && z.CurrentMiners > 0 {
		z.CurrentMiners--
	}
}

func (e *Engine) handleGetSession(robotID, zoneID uint64) protocol.ResultMsg {
	s := e.sessions[SessionKey{RobotID: robotID, ZoneID: zoneID}]
	if s == nil {
		return reject("", protocol.ErrNoActiveSession)
	}
	return ok("", map[string]any{
		"robot_id":        s.RobotID,
		"zone_id":         s.ZoneID,
		"owner":           s.Owner,
		"started_at":      s.StartedAt,
		"last_claim_at":   s.LastClaimAt,
		"energy_spent":    s.EnergySpent,
		"primary_mined":   s.PrimaryMined,
		"secondary_mined": s.SecondaryMined,
		"active":          s.Active,
	})
}
