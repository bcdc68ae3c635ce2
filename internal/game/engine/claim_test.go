package engine

import (
	"errors"
	"testing"
	"time"

	"minerbot.gg/internal/game/collab"
	"minerbot.gg/internal/protocol"
)

func TestClaim_OneHourIronMine(t *testing.T) {
	f := newFixture(t)
	f.robots.Mint(1, alice, baseRobot())
	f.prime(t, alice, 1)
	f.clk.advance(10 * time.Minute)
	f.mustStart(t, alice, 1, ironMine)

	f.clk.advance(time.Hour)
	res := f.e.handleClaim(alice, 1, ironMine, f.now())
	if !res.OK {
		t.Fatalf("claim: %s", res.Reason)
	}
	if got := res.Data["primary"].(int64); got != 108 {
		t.Fatalf("primary: got %d want 108", got)
	}
	if got := res.Data["secondary"].(int64); got != 21 {
		t.Fatalf("secondary: got %d want 21", got)
	}

	p := f.e.players[alice]
	// 70 minutes of regeneration minus the 5-unit hourly debit.
	if p.Energy != 65 {
		t.Fatalf("energy after claim: got %d want 65", p.Energy)
	}
	if p.Reputation != 1 {
		t.Fatalf("reputation: got %d want 1", p.Reputation)
	}
	if p.TotalPrimary != 108 || p.TotalSecondary != 21 || p.TotalEnergySpent != 5 {
		t.Fatalf("totals: %d/%d/%d", p.TotalPrimary, p.TotalSecondary, p.TotalEnergySpent)
	}

	s := f.e.sessions[SessionKey{RobotID: 1, ZoneID: ironMine}]
	if s.LastClaimAt != f.now() {
		t.Fatalf("last claim not advanced")
	}
	if s.PrimaryMined != 108 || s.SecondaryMined != 21 || s.EnergySpent != 5 {
		t.Fatalf("session totals: %d/%d/%d", s.PrimaryMined, s.SecondaryMined, s.EnergySpent)
	}

	if bal, _ := f.token.BalanceOf(alice); bal != 108 {
		t.Fatalf("minted balance: got %d want 108", bal)
	}
	if xp := f.robots.Experience(1); xp != 10 {
		t.Fatalf("xp: got %d want 10", xp)
	}
	checkInvariants(t, f.e)
}

func TestClaim_BeforeQuantumRejectsWithoutMutation(t *testing.T) {
	f := newFixture(t)
	f.robots.Mint(1, alice, baseRobot())
	f.prime(t, alice, 1)
	f.clk.advance(10 * time.Minute)
	f.mustStart(t, alice, 1, ironMine)

	f.clk.advance(30 * time.Minute)
	res := f.e.handleClaim(alice, 1, ironMine, f.now())
	wantReject(t, res, protocol.ErrClaimTooSoon)

	p := f.e.players[alice]
	s := f.e.sessions[SessionKey{RobotID: 1, ZoneID: ironMine}]
	if s.LastClaimAt != s.StartedAt {
		t.Fatalf("rejected claim advanced last claim")
	}
	if len(p.ClaimStamps) != 0 || p.Reputation != 0 || p.TotalPrimary != 0 {
		t.Fatalf("rejected claim mutated player state")
	}
}

func TestClaim_NoActiveSession(t *testing.T) {
	f := newFixture(t)
	f.robots.Mint(1, alice, baseRobot())
	f.prime(t, alice, 1)
	wantReject(t, f.e.handleClaim(alice, 1, ironMine, f.now()), protocol.ErrNoActiveSession)
}

func TestClaim_HourlyRateLimit(t *testing.T) {
	f := newFixture(t)
	const robots = 11
	for r := uint64(1); r <= robots; r++ {
		f.robots.Mint(r, alice, baseRobot())
		f.prime(t, alice, r)
	}
	f.clk.advance(10 * time.Minute)
	for r := uint64(1); r <= robots; r++ {
		f.mustStart(t, alice, r, ironMine)
	}

	f.clk.advance(time.Hour)
	for r := uint64(1); r <= 10; r++ {
		res := f.e.handleClaim(alice, r, ironMine, f.now())
		if !res.OK {
			t.Fatalf("claim %d: %s", r, res.Reason)
		}
	}
	p := f.e.players[alice]
	if p.Reputation != 10 {
		t.Fatalf("reputation after 10 claims: got %d", p.Reputation)
	}

	res := f.e.handleClaim(alice, 11, ironMine, f.now())
	wantReject(t, res, protocol.ErrRateLimit)
	if p.Reputation != 10 {
		t.Fatalf("rate-limited claim changed reputation: %d", p.Reputation)
	}
	if len(p.ClaimStamps) != 10 {
		t.Fatalf("rate-limited claim was recorded: %d stamps", len(p.ClaimStamps))
	}
	s := f.e.sessions[SessionKey{RobotID: 11, ZoneID: ironMine}]
	if !s.Active || s.PrimaryMined != 0 {
		t.Fatalf("rate-limited claim mutated the session")
	}

	// The next calendar hour clears the window.
	f.clk.advance(time.Hour)
	res = f.e.handleClaim(alice, 11, ironMine, f.now())
	if !res.OK {
		t.Fatalf("claim after window reset: %s", res.Reason)
	}
	checkInvariants(t, f.e)
}

func TestClaim_MaintenanceDecayAfterTenDays(t *testing.T) {
	f := newFixture(t)
	zone := f.createZone(t, ZoneParams{
		Name: "Slow Seam", Class: ZoneClassBasic,
		PrimaryResource: "IRON", SecondaryResource: "COPPER",
		BaseRewardPerHour: 100, Difficulty: 10, EnergyPerHour: 1, MaxMiners: 10,
	})
	f.robots.Mint(1, alice, baseRobot())
	f.prime(t, alice, 1)
	f.clk.advance(2 * time.Minute)
	f.mustStart(t, alice, 1, zone)

	f.clk.advance(240 * time.Hour) // ten days, no maintenance
	res := f.e.handleClaim(alice, 1, zone, f.now())
	if !res.OK {
		t.Fatalf("claim: %s", res.Reason)
	}
	if got := res.Data["decay_pct"].(int); got != 10 {
		t.Fatalf("decay: got %d want 10", got)
	}
	// Undecayed: 100 * 864000/3600 * 108/100 = 25920; decayed to 10%.
	if got := res.Data["primary"].(int64); got != 2592 {
		t.Fatalf("primary: got %d want 2592", got)
	}
}

func TestClaim_InsufficientEnergyForceStops(t *testing.T) {
	f := newFixture(t)
	zone := f.createZone(t, ZoneParams{
		Name: "Furnace Core", Class: ZoneClassElite,
		PrimaryResource: "MAGMA", SecondaryResource: "OBSIDIAN",
		BaseRewardPerHour: 100, Difficulty: 1, EnergyPerHour: 600, MaxMiners: 10,
	})
	f.robots.Mint(1, alice, baseRobot())
	f.prime(t, alice, 1)
	// Regenerate to the cap, still within the maintenance interval.
	f.clk.advance(17 * time.Hour)
	f.mustStart(t, alice, 1, zone)

	// Two hours cost 1200; the cap is 1000.
	f.clk.advance(2 * time.Hour)
	res := f.e.handleClaim(alice, 1, zone, f.now())
	if !res.OK {
		t.Fatalf("auto-stop claim must succeed, got %s", res.Reason)
	}
	if stopped, _ := res.Data["stopped"].(bool); !stopped {
		t.Fatalf("claim did not report the stop")
	}
	if got := res.Data["primary"].(int64); got != 0 {
		t.Fatalf("auto-stop granted rewards: %d", got)
	}

	s := f.e.sessions[SessionKey{RobotID: 1, ZoneID: zone}]
	if s.Active {
		t.Fatalf("session still active")
	}
	if got := f.e.zones[zone].CurrentMiners; got != 0 {
		t.Fatalf("occupancy after auto-stop: got %d want 0", got)
	}
	p := f.e.players[alice]
	if p.Suspicious != 1 {
		t.Fatalf("auto-stop is a negative signal: suspicious=%d", p.Suspicious)
	}
	if p.Reputation != 0 {
		t.Fatalf("reputation floored at zero, got %d", p.Reputation)
	}
	if bal, _ := f.token.BalanceOf(alice); bal != 0 {
		t.Fatalf("auto-stop minted tokens: %d", bal)
	}
	checkInvariants(t, f.e)
}

type failMintToken struct {
	*collab.MemoryToken
}

func (f *failMintToken) MintGameRewards(to string, amount int64) error {
	return errors.New("token bridge down")
}

func TestClaim_MintFailureLeavesStateUntouched(t *testing.T) {
	start := int64(1_700_000_000)
	start -= start % 3600
	clk := &fakeClock{t: time.Unix(start, 0)}
	robots := collab.NewMemoryRobots()
	token := &failMintToken{collab.NewMemoryToken()}
	e, err := New(Config{Operator: opAddr}, robots, token, WithClock(clk))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	robots.Mint(1, alice, baseRobot())
	now := clk.t.Unix()
	if res := e.handleGetPlayer(alice, now); !res.OK {
		t.Fatalf("get player: %s", res.Reason)
	}
	if res := e.handlePerformMaintenance(alice, 1, now); !res.OK {
		t.Fatalf("maintenance: %s", res.Reason)
	}
	clk.advance(10 * time.Minute)
	if res := e.handleStartMining(alice, 1, ironMine, clk.t.Unix()); !res.OK {
		t.Fatalf("start: %s", res.Reason)
	}

	clk.advance(time.Hour)
	res := e.handleClaim(alice, 1, ironMine, clk.t.Unix())
	wantReject(t, res, protocol.ErrMintFailed)

	p := e.players[alice]
	s := e.sessions[SessionKey{RobotID: 1, ZoneID: ironMine}]
	if s.LastClaimAt != s.StartedAt || s.PrimaryMined != 0 || s.EnergySpent != 0 {
		t.Fatalf("failed mint mutated the session")
	}
	if len(p.ClaimStamps) != 0 || p.Reputation != 0 || p.TotalPrimary != 0 {
		t.Fatalf("failed mint mutated player totals")
	}
	if !s.Active {
		t.Fatalf("failed mint closed the session")
	}
}
