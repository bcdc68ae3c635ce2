package collab

import (
	"fmt"
	"sync"
)

// MemoryRobots is an in-process RobotNFT used by the standalone server and
// by tests. Real deployments replace it with a bridge to the collection.
type MemoryRobots struct {
	mu     sync.Mutex
	owners map[uint64]string
	info   map[uint64]RobotInfo
	xp     map[uint64]int64

	MaintenanceFee int64
	FeeToken       Token
	FeeSink        string
}

func NewMemoryRobots() *MemoryRobots {
	return &MemoryRobots{
		owners: map[uint64]string{},
		info:   map[uint64]RobotInfo{},
		xp:     map[uint64]int64{},
	}
}

func (m *MemoryRobots) Mint(robotID uint64, owner string, info RobotInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[robotID] = owner
	m.info[robotID] = info
}

func (m *MemoryRobots) OwnerOf(robotID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.owners[robotID]
	if !ok {
		return "", fmt.Errorf("ownerOf %d: %w", robotID, ErrUnknownRobot)
	}
	return owner, nil
}

func (m *MemoryRobots) RobotInfo(robotID uint64) (RobotInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.info[robotID]
	if !ok {
		return RobotInfo{}, fmt.Errorf("robotInfo %d: %w", robotID, ErrUnknownRobot)
	}
	return info, nil
}

func (m *MemoryRobots) AddExperience(robotID uint64, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[robotID]; !ok {
		return fmt.Errorf("addExperience %d: %w", robotID, ErrUnknownRobot)
	}
	m.xp[robotID] += amount
	return nil
}

func (m *MemoryRobots) Experience(robotID uint64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.xp[robotID]
}

func (m *MemoryRobots) PerformMaintenance(robotID uint64, owner string) error {
	m.mu.Lock()
	actual, ok := m.owners[robotID]
	fee, tok, sink := m.MaintenanceFee, m.FeeToken, m.FeeSink
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("performMaintenance %d: %w", robotID, ErrUnknownRobot)
	}
	if actual != owner {
		return fmt.Errorf("performMaintenance %d: %s is not the owner", robotID, owner)
	}
	if fee > 0 && tok != nil {
		if err := tok.TransferFrom(owner, sink, fee); err != nil {
			return fmt.Errorf("maintenance fee: %w", err)
		}
	}
	return nil
}

// MemoryToken is an in-process Token ledger for the standalone server and
// tests.
type MemoryToken struct {
	mu       sync.Mutex
	balances map[string]int64
	minted   int64
}

func NewMemoryToken() *MemoryToken {
	return &MemoryToken{balances: map[string]int64{}}
}

func (m *MemoryToken) Credit(addr string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[addr] += amount
}

func (m *MemoryToken) MintGameRewards(to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("mint %d: negative amount", amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[to] += amount
	m.minted += amount
	return nil
}

func (m *MemoryToken) TransferFrom(from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transferFrom %d: negative amount", amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[from] < amount {
		return fmt.Errorf("transferFrom %s: balance %d < %d", from, m.balances[from], amount)
	}
	m.balances[from] -= amount
	m.balances[to] += amount
	return nil
}

func (m *MemoryToken) BalanceOf(addr string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr], nil
}

func (m *MemoryToken) TotalMinted() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minted
}
