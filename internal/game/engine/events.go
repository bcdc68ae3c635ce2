package engine

import "minerbot.gg/internal/protocol"

// activeEventPct scans events in creation order and returns the multiplier
// of the first active event whose window contains now. Later events that
// also match are ignored even when their bonus is larger; overlap handling
// is the caller's problem when scheduling events. 100 means no event.
func (e *Engine) activeEventPct(now int64) int {
	for _, ev := range e.events {
		if ev.Active && ev.StartAt <= now && now < ev.EndAt {
			return ev.MultiplierPct
		}
	}
	return 100
}

func (e *Engine) handleCreateEvent(caller string, act protocol.ActMsg, now int64) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject(act.ActID, protocol.ErrNotOperator)
	}
	if act.Name == "" || act.DurationSeconds <= 0 || act.MultiplierPct <= 0 {
		return reject(act.ActID, protocol.ErrBadRequest)
	}
	ev := &SpecialEvent{
		ID:            e.nextEventID,
		Name:          act.Name,
		StartAt:       now,
		EndAt:         now + act.DurationSeconds,
		MultiplierPct: act.MultiplierPct,
		BonusResource: act.BonusResource,
		Active:        true,
	}
	e.nextEventID++
	e.events = append(e.events, ev)
	e.emitAudit(AuditEntry{At: now, Op: "EVENT_CREATED", Detail: ev.Name, Amount: int64(ev.MultiplierPct)})
	return ok(act.ActID, map[string]any{"event_id": ev.ID, "ends_at": ev.EndAt})
}

func (e *Engine) handleSetEventActive(caller string, act protocol.ActMsg) protocol.ResultMsg {
	if caller != e.cfg.Operator {
		return reject(act.ActID, protocol.ErrNotOperator)
	}
	if act.Active == nil {
		return reject(act.ActID, protocol.ErrBadRequest)
	}
	for _, ev := range e.events {
		if ev.ID == act.TargetID {
			ev.Active = *act.Active
			return ok(act.ActID, map[string]any{"event_id": ev.ID, "active": ev.Active})
		}
	}
	return reject(act.ActID, protocol.ErrBadRequest)
}
