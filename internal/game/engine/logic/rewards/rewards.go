package rewards

import "minerbot.gg/internal/game/collab"

// All arithmetic here is integer floor division on purpose: recorded totals
// must replay bit-for-bit from the same inputs.

// rarityBonusPct is indexed by collab.Rarity* (Common..Legendary).
var rarityBonusPct = [...]int{0, 10, 25, 50, 100}

// MultiplierPct folds robot attributes into a percentage multiplier with
// basis 100 (100 = no bonus).
func MultiplierPct(r collab.RobotInfo) int {
	efficiency := (r.Efficiency + r.MiningPower) / 2
	pct := 100 + efficiency/10 + levelBonus(r.Level)
	if r.Rarity >= 0 && r.Rarity < len(rarityBonusPct) {
		pct += rarityBonusPct[r.Rarity]
	}
	if r.IsEvolved {
		pct += 50
	}
	return pct
}

func levelBonus(level int) int {
	return level * 2
}

// Compute yields the (primary, secondary) reward for one claim window.
// eventPct and decayPct use basis 100; callers pass 100 when no event is
// active or the robot is freshly maintained.
func Compute(baseRewardPerHour, elapsedSeconds int64, r collab.RobotInfo, eventPct, decayPct int) (primary, secondary int64) {
	if elapsedSeconds <= 0 || baseRewardPerHour <= 0 {
		return 0, 0
	}
	pct := int64(MultiplierPct(r)) * int64(eventPct) / 100

	primary = baseRewardPerHour * elapsedSeconds / 3600 * pct / 100
	secondary = primary / 5

	primary = primary * int64(decayPct) / 100
	secondary = secondary * int64(decayPct) / 100
	return primary, secondary
}

// DecayPct computes the maintenance decay percentage: 100 within the
// interval, then -10 points per full overdue day, never below 10. A robot
// with no recorded maintenance (last == 0) is fully decayed.
func DecayPct(lastMaintenance, now, intervalSeconds int64) int {
	if lastMaintenance <= 0 {
		return 10
	}
	elapsed := now - lastMaintenance
	if elapsed <= intervalSeconds {
		return 100
	}
	overdueDays := (elapsed - intervalSeconds) / 86400
	pct := 100 - int(overdueDays)*10
	if pct < 10 {
		pct = 10
	}
	return pct
}

// SuitableFor reports whether a robot passes a zone's suitability gate.
func SuitableFor(r collab.RobotInfo, difficulty int) bool {
	return r.Efficiency >= difficulty*5
}
