package engine

import (
	"fmt"
	"sort"
)

const SnapshotVersion = 1

// Snapshot is the full persisted data model, exported as one JSON document.
// Sessions carry everything needed to rebuild the robot->zone index and the
// zone occupancy counters, so those are derived on import rather than
// stored.
type Snapshot struct {
	Version    int    `json:"version"`
	TakenAt    int64  `json:"taken_at"`
	Paused     bool   `json:"paused"`
	NextZoneID uint64 `json:"next_zone_id"`
	NextEvent  uint64 `json:"next_event_id"`

	Zones           []Zone           `json:"zones"`
	Sessions        []MiningSession  `json:"sessions"`
	Players         []Player         `json:"players"`
	Events          []SpecialEvent   `json:"events"`
	LastMaintenance map[uint64]int64 `json:"last_maintenance"`
}

func (e *Engine) exportSnapshot() Snapshot {
	now := e.now()
	snap := Snapshot{
		Version:         SnapshotVersion,
		TakenAt:         now,
		Paused:          e.paused,
		NextZoneID:      e.nextZoneID,
		NextEvent:       e.nextEventID,
		LastMaintenance: map[uint64]int64{},
	}
	for robot, at := range e.lastMaintenance {
		snap.LastMaintenance[robot] = at
	}
	for _, z := range e.zones {
		snap.Zones = append(snap.Zones, *z)
	}
	sort.Slice(snap.Zones, func(i, j int) bool { return snap.Zones[i].ID < snap.Zones[j].ID })
	for _, s := range e.sessions {
		snap.Sessions = append(snap.Sessions, *s)
	}
	sort.Slice(snap.Sessions, func(i, j int) bool {
		a, b := snap.Sessions[i], snap.Sessions[j]
		if a.RobotID != b.RobotID {
			return a.RobotID < b.RobotID
		}
		return a.ZoneID < b.ZoneID
	})
	for _, p := range e.players {
		cp := *p
		cp.ClaimStamps = append([]int64(nil), p.ClaimStamps...)
		snap.Players = append(snap.Players, cp)
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].Address < snap.Players[j].Address })
	for _, ev := range e.events {
		snap.Events = append(snap.Events, *ev)
	}
	return snap
}

// ImportSnapshot replaces all engine state with snap. Call before Run.
func (e *Engine) ImportSnapshot(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d not supported", snap.Version)
	}
	e.paused = snap.Paused
	e.zones = map[uint64]*Zone{}
	for i := range snap.Zones {
		z := snap.Zones[i]
		z.CurrentMiners = 0
		e.zones[z.ID] = &z
	}
	e.nextZoneID = snap.NextZoneID
	if e.nextZoneID == 0 {
		e.nextZoneID = 1
	}

	e.sessions = map[SessionKey]*MiningSession{}
	e.activeZone = map[uint64]uint64{}
	for i := range snap.Sessions {
		s := snap.Sessions[i]
		key := SessionKey{RobotID: s.RobotID, ZoneID: s.ZoneID}
		e.sessions[key] = &s
		if s.Active {
			if e.activeZone[s.RobotID] != 0 {
				return fmt.Errorf("snapshot: robot %d active in two zones", s.RobotID)
			}
			e.activeZone[s.RobotID] = s.ZoneID
			z := e.zones[s.ZoneID]
			if z == nil {
				return fmt.Errorf("snapshot: session references unknown zone %d", s.ZoneID)
			}
			z.CurrentMiners++
			if z.CurrentMiners > z.MaxMiners {
				return fmt.Errorf("snapshot: zone %d over capacity", z.ID)
			}
		}
	}

	e.players = map[string]*Player{}
	for i := range snap.Players {
		p := snap.Players[i]
		p.initDefaults()
		e.players[p.Address] = &p
	}

	e.events = nil
	for i := range snap.Events {
		ev := snap.Events[i]
		e.events = append(e.events, &ev)
	}
	e.nextEventID = snap.NextEvent
	if e.nextEventID == 0 {
		e.nextEventID = 1
	}

	e.lastMaintenance = map[uint64]int64{}
	for robot, at := range snap.LastMaintenance {
		e.lastMaintenance[robot] = at
	}
	return nil
}
