package engine

import (
	"testing"
	"time"

	"minerbot.gg/internal/game/collab"
	"minerbot.gg/internal/protocol"
)

const (
	opAddr = "op:test"
	alice  = "0xalice"
	bob    = "0xbob"
)

// Seed zone ids in creation order.
const (
	ironMine      = uint64(1)
	crystalCavern = uint64(2)
	quantumRift   = uint64(3)
	voidNexus     = uint64(4)
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	e      *Engine
	clk    *fakeClock
	robots *collab.MemoryRobots
	token  *collab.MemoryToken
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	// Aligned to an hour boundary so claim-window buckets are predictable.
	start := int64(1_700_000_000)
	start -= start % 3600
	clk := &fakeClock{t: time.Unix(start, 0)}
	robots := collab.NewMemoryRobots()
	token := collab.NewMemoryToken()
	e, err := New(Config{Operator: opAddr}, robots, token, append([]Option{WithClock(clk)}, opts...)...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return &fixture{e: e, clk: clk, robots: robots, token: token}
}

func (f *fixture) now() int64 { return f.clk.t.Unix() }

func baseRobot() collab.RobotInfo {
	return collab.RobotInfo{Efficiency: 60, MiningPower: 60, Rarity: collab.RarityCommon, Level: 1}
}

// prime anchors addr's energy ledger and services the robot so the
// session-start maintenance gate passes.
func (f *fixture) prime(t *testing.T, addr string, robotID uint64) {
	t.Helper()
	if res := f.e.handleGetPlayer(addr, f.now()); !res.OK {
		t.Fatalf("get player: %s", res.Reason)
	}
	if robotID != 0 {
		if res := f.e.handlePerformMaintenance(addr, robotID, f.now()); !res.OK {
			t.Fatalf("maintenance: %s", res.Reason)
		}
	}
}

func (f *fixture) mustStart(t *testing.T, addr string, robotID, zoneID uint64) {
	t.Helper()
	res := f.e.handleStartMining(addr, robotID, zoneID, f.now())
	if !res.OK {
		t.Fatalf("start mining robot=%d zone=%d: %s", robotID, zoneID, res.Reason)
	}
}

func (f *fixture) createZone(t *testing.T, p ZoneParams) uint64 {
	t.Helper()
	res := f.e.handleCreateZone(opAddr, protocol.ActMsg{
		Name:              p.Name,
		ZoneClass:         p.Class,
		PrimaryResource:   p.PrimaryResource,
		SecondaryResource: p.SecondaryResource,
		BaseRewardPerHour: p.BaseRewardPerHour,
		Difficulty:        p.Difficulty,
		EnergyPerHour:     p.EnergyPerHour,
		MaxMiners:         p.MaxMiners,
	}, f.now())
	if !res.OK {
		t.Fatalf("create zone %q: %s", p.Name, res.Reason)
	}
	return res.Data["zone_id"].(uint64)
}

func wantReject(t *testing.T, res protocol.ResultMsg, reason string) {
	t.Helper()
	if res.OK {
		t.Fatalf("expected rejection %s, got success", reason)
	}
	if res.Reason != reason {
		t.Fatalf("reason: got %s want %s", res.Reason, reason)
	}
}

// checkInvariants asserts the cross-cutting properties that must hold after
// every operation: zone occupancy within capacity and consistent with the
// session store, at most one active session per robot, energy in range.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()
	activeByZone := map[uint64]int{}
	activeByRobot := map[uint64]int{}
	for _, s := range e.sessions {
		if s.Active {
			activeByZone[s.ZoneID]++
			activeByRobot[s.RobotID]++
		}
	}
	for id, z := range e.zones {
		if z.CurrentMiners > z.MaxMiners {
			t.Fatalf("zone %d over capacity: %d > %d", id, z.CurrentMiners, z.MaxMiners)
		}
		if z.CurrentMiners != activeByZone[id] {
			t.Fatalf("zone %d occupancy %d != %d active sessions", id, z.CurrentMiners, activeByZone[id])
		}
	}
	for robot, n := range activeByRobot {
		if n > 1 {
			t.Fatalf("robot %d has %d active sessions", robot, n)
		}
		if e.activeZone[robot] == 0 {
			t.Fatalf("robot %d active but missing from index", robot)
		}
	}
	for robot, zone := range e.activeZone {
		s := e.sessions[SessionKey{RobotID: robot, ZoneID: zone}]
		if s == nil || !s.Active {
			t.Fatalf("index points robot %d at zone %d without an active session", robot, zone)
		}
	}
	for addr, p := range e.players {
		if p.Energy < 0 || p.Energy > e.cfg.MaxEnergy {
			t.Fatalf("player %s energy %d out of range", addr, p.Energy)
		}
	}
}
