package collab

import "fmt"

// Rarity tiers mirrored from the robot collection.
const (
	RarityCommon = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

// RobotInfo is the read-only attribute view the engine needs for reward
// computation and the zone suitability gate. The robot collection owns these
// fields; the engine never writes them.
type RobotInfo struct {
	Efficiency  int
	MiningPower int
	Rarity      int
	Level       int
	IsEvolved   bool
}

// RobotNFT is the robot-collection collaborator.
type RobotNFT interface {
	OwnerOf(robotID uint64) (string, error)
	RobotInfo(robotID uint64) (RobotInfo, error)
	// AddExperience grants XP to a robot. Failures are logged and swallowed
	// by the engine; they never fail the surrounding operation.
	AddExperience(robotID uint64, amount int64) error
	// PerformMaintenance services a robot on the collection's side, debiting
	// the maintenance fee from the owner there.
	PerformMaintenance(robotID uint64, owner string) error
}

// Token is the game-token collaborator.
type Token interface {
	MintGameRewards(to string, amount int64) error
	TransferFrom(from, to string, amount int64) error
	BalanceOf(addr string) (int64, error)
}

// ErrUnknownRobot is returned by implementations for robot ids they have
// never minted.
var ErrUnknownRobot = fmt.Errorf("unknown robot")
