package engine

import (
	"context"
	"log"

	"minerbot.gg/internal/game/collab"
	"minerbot.gg/internal/protocol"
)

// Engine owns all mutable state of the mining economy. A single goroutine
// (Run) processes one request at a time, so every operation is atomic with
// respect to every other; handlers validate fully before mutating, and a
// rejected request mutates nothing.
type Engine struct {
	cfg    Config
	log    *log.Logger
	clock  Clock
	robots collab.RobotNFT
	token  collab.Token
	audit  AuditSink

	zones      map[uint64]*Zone
	nextZoneID uint64

	sessions   map[SessionKey]*MiningSession
	activeZone map[uint64]uint64 // robotID -> zoneID of its active session

	players         map[string]*Player
	lastMaintenance map[uint64]int64 // robotID -> unix seconds

	events      []*SpecialEvent
	nextEventID uint64

	paused bool

	inbox     chan ActionEnvelope
	paramsReq chan chan protocol.EngineParams
	snapReq   chan chan Snapshot
	stop      chan struct{}
}

// ActionEnvelope is one request submitted to the engine goroutine.
type ActionEnvelope struct {
	Player string
	Act    protocol.ActMsg
	Resp   chan protocol.ResultMsg
}

func New(cfg Config, robots collab.RobotNFT, token collab.Token, opts ...Option) (*Engine, error) {
	cfg.applyDefaults()
	e := &Engine{
		cfg:             cfg,
		log:             log.New(logDiscard{}, "", 0),
		clock:           RealClock{},
		robots:          robots,
		token:           token,
		zones:           map[uint64]*Zone{},
		nextZoneID:      1,
		sessions:        map[SessionKey]*MiningSession{},
		activeZone:      map[uint64]uint64{},
		players:         map[string]*Player{},
		lastMaintenance: map[uint64]int64{},
		nextEventID:     1,
		inbox:           make(chan ActionEnvelope, 64),
		paramsReq:       make(chan chan protocol.EngineParams),
		snapReq:         make(chan chan Snapshot),
		stop:            make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	now := e.now()
	for _, p := range e.cfg.SeedZones {
		if _, err := e.createZone(p, now); err != nil {
			return nil, err
		}
	}
	return e, nil
}

type Option func(*Engine)

func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.log = l } }
func WithClock(c Clock) Option        { return func(e *Engine) { e.clock = c } }
func WithAuditSink(s AuditSink) Option {
	return func(e *Engine) { e.audit = s }
}

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }

func (e *Engine) Inbox() chan<- ActionEnvelope { return e.inbox }

// Params asks the engine goroutine for the current engine parameters, so
// the zone count is read under the same single-writer discipline as every
// other piece of state.
func (e *Engine) Params() protocol.EngineParams {
	resp := make(chan protocol.EngineParams, 1)
	e.paramsReq <- resp
	return <-resp
}

func (e *Engine) params() protocol.EngineParams {
	return protocol.EngineParams{
		MaxEnergy:            e.cfg.MaxEnergy,
		EnergyRegenSeconds:   e.cfg.EnergyRegenSeconds,
		ClaimQuantumSeconds:  e.cfg.ClaimQuantumSeconds,
		ClaimsPerHour:        e.cfg.ClaimsPerHour,
		MaintenanceIntervalS: e.cfg.MaintenanceInterval,
		EnergyPricePerUnit:   e.cfg.EnergyPricePerUnit,
		MaxEnergyPurchase:    e.cfg.MaxEnergyPurchase,
		ZoneCount:            len(e.zones),
	}
}

// Run serializes all state access on the calling goroutine until ctx is
// cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		case resp := <-e.paramsReq:
			resp <- e.params()
		case resp := <-e.snapReq:
			resp <- e.exportSnapshot()
		case env := <-e.inbox:
			res := e.dispatch(env.Player, env.Act)
			if env.Resp != nil {
				env.Resp <- res
			}
		}
	}
}

func (e *Engine) Stop() { close(e.stop) }

// Do submits one request and waits for its result. Safe for concurrent use;
// the engine goroutine applies requests one at a time.
func (e *Engine) Do(player string, act protocol.ActMsg) protocol.ResultMsg {
	resp := make(chan protocol.ResultMsg, 1)
	e.inbox <- ActionEnvelope{Player: player, Act: act, Resp: resp}
	return <-resp
}

// ExportSnapshot asks the engine goroutine for a consistent snapshot.
func (e *Engine) ExportSnapshot() Snapshot {
	resp := make(chan Snapshot, 1)
	e.snapReq <- resp
	return <-resp
}

func (e *Engine) dispatch(player string, act protocol.ActMsg) protocol.ResultMsg {
	now := e.now()
	switch act.Action {
	case protocol.ActStartMining:
		return e.handleStartMining(player, act.RobotID, act.ZoneID, now)
	case protocol.ActClaimRewards:
		return e.handleClaim(player, act.RobotID, act.ZoneID, now)
	case protocol.ActStopMining:
		return e.handleStopMining(player, act.RobotID, act.ZoneID, now)
	case protocol.ActPerformMaintenance:
		return e.handlePerformMaintenance(player, act.RobotID, now)
	case protocol.ActBuyEnergy:
		return e.handleBuyEnergy(player, act.Amount, now)
	case protocol.ActGetPlayer:
		return e.handleGetPlayer(player, now)
	case protocol.ActGetZone:
		return e.handleGetZone(act.ZoneID)
	case protocol.ActGetSession:
		return e.handleGetSession(act.RobotID, act.ZoneID)
	case protocol.ActCreateZone:
		return e.handleCreateZone(player, act, now)
	case protocol.ActSetZoneActive:
		return e.handleSetZoneActive(player, act)
	case protocol.ActCreateEvent:
		return e.handleCreateEvent(player, act, now)
	case protocol.ActSetEventActive:
		return e.handleSetEventActive(player, act)
	case protocol.ActBanPlayer:
		return e.handleBan(player, act.TargetPlayer, true)
	case protocol.ActUnbanPlayer:
		return e.handleBan(player, act.TargetPlayer, false)
	case protocol.ActPause:
		return e.handleSetPaused(player, true)
	case protocol.ActUnpause:
		return e.handleSetPaused(player, false)
	case protocol.ActEmergencyWithdraw:
		return e.handleEmergencyWithdraw(player)
	default:
		return reject("", protocol.ErrBadRequest)
	}
}

func (e *Engine) now() int64 { return e.clock.Now().Unix() }

func ok(actID string, data map[string]any) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ActID:           actID,
		OK:              true,
		Data:            data,
	}
}

func reject(actID, reason string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ActID:           actID,
		OK:              false,
		Reason:          reason,
	}
}

// player returns the lazily-created state for addr. First touch anchors the
// energy ledger at now so no energy accrues retroactively.
func (e *Engine) player(addr string, now int64) *Player {
	p := e.players[addr]
	if p == nil {
		p = &Player{Address: addr, EnergyAnchor: now}
		p.initDefaults()
		e.players[addr] = p
	}
	return p
}

// guardPlayerOp runs the checks shared by every player-facing mutation:
// engine not paused, caller not banned, caller owns the robot (robotID 0
// skips the ownership check for robot-less operations).
func (e *Engine) guardPlayerOp(addr string, robotID uint64, now int64) (p *Player, reason string) {
	if e.paused {
		return nil, protocol.ErrPaused
	}
	p = e.player(addr, now)
	if p.Banned {
		return nil, protocol.ErrBanned
	}
	if robotID != 0 {
		owner, err := e.robots.OwnerOf(robotID)
		if err != nil || owner != addr {
			return nil, protocol.ErrNotOwner
		}
	}
	return p, ""
}
