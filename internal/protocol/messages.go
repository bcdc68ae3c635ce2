package protocol

// Action names carried in ACT messages. Player-facing first, then operator.
const (
	ActStartMining        = "START_MINING"
	ActClaimRewards       = "CLAIM_REWARDS"
	ActStopMining         = "STOP_MINING"
	ActPerformMaintenance = "PERFORM_MAINTENANCE"
	ActBuyEnergy          = "BUY_ENERGY"

	ActGetPlayer  = "GET_PLAYER"
	ActGetZone    = "GET_ZONE"
	ActGetSession = "GET_SESSION"

	ActCreateZone        = "CREATE_ZONE"
	ActSetZoneActive     = "SET_ZONE_ACTIVE"
	ActCreateEvent       = "CREATE_EVENT"
	ActSetEventActive    = "SET_EVENT_ACTIVE"
	ActBanPlayer         = "BAN_PLAYER"
	ActUnbanPlayer       = "UNBAN_PLAYER"
	ActPause             = "PAUSE"
	ActUnpause           = "UNPAUSE"
	ActEmergencyWithdraw = "EMERGENCY_WITHDRAW"
)

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerAddress   string `json:"player_address"`
	ClientName      string `json:"client_name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	PlayerAddress   string       `json:"player_address"`
	EngineParams    EngineParams `json:"engine_params"`
}

type EngineParams struct {
	MaxEnergy            int64 `json:"max_energy"`
	EnergyRegenSeconds   int64 `json:"energy_regen_seconds"`
	ClaimQuantumSeconds  int64 `json:"claim_quantum_seconds"`
	ClaimsPerHour        int   `json:"claims_per_hour"`
	MaintenanceIntervalS int64 `json:"maintenance_interval_seconds"`
	EnergyPricePerUnit   int64 `json:"energy_price_per_unit"`
	MaxEnergyPurchase    int64 `json:"max_energy_purchase"`
	ZoneCount            int   `json:"zone_count"`
}

// ACT (client -> server): one player or operator operation.
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ActID           string `json:"act_id,omitempty"`
	Action          string `json:"action"`

	RobotID uint64 `json:"robot_id,omitempty"`
	ZoneID  uint64 `json:"zone_id,omitempty"`
	Amount  int64  `json:"amount,omitempty"`

	// CREATE_ZONE / CREATE_EVENT parameters.
	Name              string `json:"name,omitempty"`
	ZoneClass         string `json:"zone_class,omitempty"`
	PrimaryResource   string `json:"primary_resource,omitempty"`
	SecondaryResource string `json:"secondary_resource,omitempty"`
	BaseRewardPerHour int64  `json:"base_reward_per_hour,omitempty"`
	Difficulty        int    `json:"difficulty,omitempty"`
	EnergyPerHour     int64  `json:"energy_per_hour,omitempty"`
	MaxMiners         int    `json:"max_miners,omitempty"`

	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	MultiplierPct   int    `json:"multiplier_pct,omitempty"`
	BonusResource   string `json:"bonus_resource,omitempty"`

	// BAN/UNBAN / SET_*_ACTIVE targets.
	TargetPlayer string `json:"target_player,omitempty"`
	TargetID     uint64 `json:"target_id,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

// RESULT (server -> client): synchronous outcome of one ACT.
type ResultMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	ActID           string         `json:"act_id,omitempty"`
	OK              bool           `json:"ok"`
	Reason          string         `json:"reason,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
}
