package engine

// Zone classes. Class is descriptive metadata; difficulty is what gates
// robot suitability.
const (
	ZoneClassBasic     = "BASIC"
	ZoneClassAdvanced  = "ADVANCED"
	ZoneClassElite     = "ELITE"
	ZoneClassLegendary = "LEGENDARY"
)

type Zone struct {
	ID                uint64
	Name              string
	Class             string
	PrimaryResource   string
	SecondaryResource string
	BaseRewardPerHour int64
	Difficulty        int // 1..100
	EnergyPerHour     int64
	MaxMiners         int
	CurrentMiners     int
	Active            bool
	DiscoveredAt      int64
}

// ZoneParams is the creation payload for a zone (seed zones and the
// operator's CREATE_ZONE both go through it).
type ZoneParams struct {
	Name              string
	Class             string
	PrimaryResource   string
	SecondaryResource string
	BaseRewardPerHour int64
	Difficulty        int
	EnergyPerHour     int64
	MaxMiners         int
}

// SessionKey identifies a mining engagement: one record per (robot, zone)
// pair. A robot re-entering the same zone reuses the key and resets the
// record.
type SessionKey struct {
	RobotID uint64
	ZoneID  uint64
}

type MiningSession struct {
	RobotID        uint64
	ZoneID         uint64
	Owner          string
	StartedAt      int64
	LastClaimAt    int64
	EnergySpent    int64
	PrimaryMined   int64
	SecondaryMined int64
	Active         bool
}

type Player struct {
	Address string

	// Energy ledger. Anchor 0 means the ledger has never been touched;
	// first touch sets the anchor without granting retroactive energy.
	Energy       int64
	EnergyAnchor int64

	// Anti-fraud state.
	Reputation  int
	Suspicious  int
	Banned      bool
	ClaimStamps []int64

	// Aggregate totals.
	TotalPrimary     int64
	TotalSecondary   int64
	TotalEnergySpent int64
	RobotsUsed       map[uint64]bool
	ZonesVisited     map[uint64]bool
	LastActivity     int64
}

func (p *Player) initDefaults() {
	if p.RobotsUsed == nil {
		p.RobotsUsed = map[uint64]bool{}
	}
	if p.ZonesVisited == nil {
		p.ZonesVisited = map[uint64]bool{}
	}
}

type SpecialEvent struct {
	ID            uint64
	Name          string
	StartAt       int64
	EndAt         int64
	MultiplierPct int // basis 100
	BonusResource string
	Active        bool
}
