package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	MaxEnergy            int64 `yaml:"max_energy"`
	EnergyRegenSeconds   int64 `yaml:"energy_regen_seconds"`
	ClaimQuantumSeconds  int64 `yaml:"claim_quantum_seconds"`
	ClaimsPerHour        int   `yaml:"claims_per_hour"`
	MaintenanceIntervalS int64 `yaml:"maintenance_interval_seconds"`
	SuspicionBanCount    int   `yaml:"suspicion_ban_count"`
	XPPerHour            int64 `yaml:"xp_per_hour"`

	EnergyPricePerUnit int64 `yaml:"energy_price_per_unit"`
	MaxEnergyPurchase  int64 `yaml:"max_energy_purchase"`

	SeedZones []SeedZone `yaml:"seed_zones"`
}

type SeedZone struct {
	Name              string `yaml:"name"`
	Class             string `yaml:"class"`
	PrimaryResource   string `yaml:"primary_resource"`
	SecondaryResource string `yaml:"secondary_resource"`
	BaseRewardPerHour int64  `yaml:"base_reward_per_hour"`
	Difficulty        int    `yaml:"difficulty"`
	EnergyPerHour     int64  `yaml:"energy_per_hour"`
	MaxMiners         int    `yaml:"max_miners"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
