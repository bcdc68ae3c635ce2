package engine

import "time"

// Clock abstracts time so tests drive the engine deterministically.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type Config struct {
	// Operator may run the privileged operations; Treasury collects energy
	// purchases until an emergency withdraw.
	Operator string
	Treasury string

	MaxEnergy           int64
	EnergyRegenSeconds  int64 // seconds of wall clock per energy unit
	ClaimQuantumSeconds int64
	ClaimsPerHour       int
	MaintenanceInterval int64
	SuspicionBanCount   int
	XPPerHour           int64

	EnergyPricePerUnit int64
	MaxEnergyPurchase  int64

	// Zones created at construction time when the engine starts fresh
	// (ignored when resuming from a snapshot).
	SeedZones []ZoneParams
}

func (c *Config) applyDefaults() {
	if c.Treasury == "" {
		c.Treasury = "engine:treasury"
	}
	if c.MaxEnergy <= 0 {
		c.MaxEnergy = 1000
	}
	if c.EnergyRegenSeconds <= 0 {
		c.EnergyRegenSeconds = 60
	}
	if c.ClaimQuantumSeconds <= 0 {
		c.ClaimQuantumSeconds = 3600
	}
	if c.ClaimsPerHour <= 0 {
		c.ClaimsPerHour = 10
	}
	if c.MaintenanceInterval <= 0 {
		c.MaintenanceInterval = 24 * 3600
	}
	if c.SuspicionBanCount <= 0 {
		c.SuspicionBanCount = 10
	}
	if c.XPPerHour <= 0 {
		c.XPPerHour = 10
	}
	if c.EnergyPricePerUnit <= 0 {
		c.EnergyPricePerUnit = 10
	}
	if c.MaxEnergyPurchase <= 0 {
		c.MaxEnergyPurchase = 500
	}
	if c.SeedZones == nil {
		c.SeedZones = DefaultSeedZones()
	}
}

// DefaultSeedZones returns the four launch zones.
func DefaultSeedZones() []ZoneParams {
	return []ZoneParams{
		{Name: "Iron Mine", Class: ZoneClassBasic, PrimaryResource: "IRON", SecondaryResource: "COPPER", BaseRewardPerHour: 100, Difficulty: 10, EnergyPerHour: 5, MaxMiners: 1000},
		{Name: "Crystal Cavern", Class: ZoneClassAdvanced, PrimaryResource: "CRYSTAL", SecondaryResource: "SILVER", BaseRewardPerHour: 250, Difficulty: 30, EnergyPerHour: 10, MaxMiners: 500},
		{Name: "Quantum Rift", Class: ZoneClassElite, PrimaryResource: "QUANTUM", SecondaryResource: "GOLD", BaseRewardPerHour: 600, Difficulty: 60, EnergyPerHour: 20, MaxMiners: 200},
		{Name: "Void Nexus", Class: ZoneClassLegendary, PrimaryResource: "VOIDSTONE", SecondaryResource: "PLATINUM", BaseRewardPerHour: 1500, Difficulty: 90, EnergyPerHour: 40, MaxMiners: 50},
	}
}
