package engine

import (
	"fmt"

	"minerbot.gg/internal/protocol"
)

// createZone assigns the next sequential id. Zones are never deleted;
// deactivation freezes new starts while running sessions continue.
func (e *Engine) createZone(p ZoneParams, now int64) (*Zone, error) {
	if p.MaxMiners <= 0 {
		return nil, fmt.Errorf("zone %q: max miners must be positive", p.Name)
	}
	if p.EnergyPerHour <= 0 {
		return nil, fmt.Errorf("zone %q: energy cost must be positive", p.Name)
	}
	if p.Difficulty < 1 || p.Difficulty > 100 {
		return nil, fmt.Errorf("zone %q: difficulty %d out of range", p.Name, p.Difficulty)
	}
	z := &Zone{
		ID:                e.nextZoneID,
		Name:              p.Name,
		Class:             p.Class,
		PrimaryResource:   p.PrimaryResource,
		SecondaryResource: p.SecondaryResource,
		BaseRewardPerHour: p.BaseRewardPerHour,
		Difficulty:        p.Difficulty,
		EnergyPerHour:     p.EnergyPerHour,
		MaxMiners:         p.MaxMiners,
		Active:            true,
		DiscoveredAt:      now,
	}
	e.nextZoneID++
	e.zones[z.ID] = z
	e.emitAudit(AuditEntry{At: now, Op: "ZONE_DISCOVERED", ZoneID: z.ID, Detail: z.Name})
	return z, nil
}

func (e *Engine) zone(id uint64) *Zone {
	if id == 0 || id >= e.nextZoneID {
		return nil
	}
	return e.zones[id]
}

func (e *Engine) handleCreateZone(caller string, act protocol.ActMsg, now int64) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject(act.ActID, protocol.ErrNotOperator)
	}
	z, err := e.createZone(ZoneParams{
		Name:              act.Name,
		Class:             act.ZoneClass,
		PrimaryResource:   act.PrimaryResource,
		SecondaryResource: act.SecondaryResource,
		BaseRewardPerHour: act.BaseRewardPerHour,
		Difficulty:        act.Difficulty,
		EnergyPerHour:     act.EnergyPerHour,
		MaxMiners:         act.MaxMiners,
	}, now)
	if err != nil {
		return reject(act.ActID, protocol.ErrBadRequest)
	}
	return ok(act.ActID, map[string]any{"zone_id": z.ID})
}

func (e *Engine) handleSetZoneActive(caller string, act protocol.ActMsg) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject(act.ActID, protocol.ErrNotOperator)
	}
	z := e.zone(act.TargetID)
	if z == nil {
		return reject(act.ActID, protocol.ErrZoneNotFound)
	}
	if act.Active == nil {
		return reject(act.ActID, protocol.ErrBadRequest)
	}
	z.Active = *act.Active
	return ok(act.ActID, map[string]any{"zone_id": z.ID, "active": z.Active})
}

func (e *Engine) handleGetZone(zoneID uint64) protocol.ResultMsg {
	z := e.zone(zoneID)
	if z == nil {
		return reject("", protocol.ErrZoneNotFound)
	}
	return ok("", map[string]any{
		"zone_id":              z.ID,
		"name":                 z.Name,
		"class":                z.Class,
		"primary_resource":     z.PrimaryResource,
		"secondary_resource":   z.SecondaryResource,
		"base_reward_per_hour": z.BaseRewardPerHour,
		"difficulty":           z.Difficulty,
		"energy_per_hour":      z.EnergyPerHour,
		"max_miners":           z.MaxMiners,
		"current_miners":       z.CurrentMiners,
		"active":               z.Active,
	})
}
