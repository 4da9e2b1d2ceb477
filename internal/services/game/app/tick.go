package app

import (
	"context"
	"errors"
	"time"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/tax"
)

// pendingEvent is a delayed storm emission anchored to a wall-clock
// deadline. It carries the id of the storm it was scheduled against; if
// that storm is gone or replaced when the deadline passes, the event is
// dropped without output.
type pendingEvent struct {
	dueAt   time.Time
	userID  string
	stormID string
	event   storm.Event
}

// outbound is a message produced during a tick, delivered after the state
// lock is released so delivery never blocks record updates.
type outbound struct {
	notice     *tax.Notice
	channelRef string
	userID     string
	event      *storm.Event
}

// Tick runs one scheduler pass at the given instant: for every player the
// escalation check, the tax notification check, and, when due, a storm
// development roll; then any matured delayed emissions; then one snapshot
// persist if anything changed. Delivery failures are logged and dropped.
func (s *Service) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()

	var deliveries []outbound

	for _, userID := range s.userIDsLocked() {
		rec := s.records[userID]

		if notice, changed := s.taxes.Advance(rec, now); notice != nil || changed {
			s.dirty = true
			if notice != nil {
				deliveries = append(deliveries, outbound{notice: notice})
			}
		}

		if rec.Storm == nil || now.Before(rec.Storm.NextCheckAt) {
			continue
		}

		stormID := rec.Storm.ID
		events := s.storms.Advance(rec.Storm, now)
		s.dirty = true

		for _, ev := range events {
			if ev.Delay > 0 {
				s.pending = append(s.pending, pendingEvent{
					dueAt:   now.Add(ev.Delay),
					userID:  userID,
					stormID: stormID,
					event:   ev,
				})
				continue
			}
			s.applyImmediateLocked(rec, ev, now)
			deliveries = append(deliveries, outbound{
				channelRef: rec.ChannelRef,
				userID:     userID,
				event:      &ev,
			})
		}
	}

	deliveries = append(deliveries, s.firePendingLocked(now)...)

	if s.dirty {
		if err := s.persistLocked(ctx); err != nil {
			s.logf("tick: persist snapshot: %v (will retry next tick)", err)
		}
	}

	s.mu.Unlock()

	s.deliver(ctx, deliveries)
}

// applyImmediateLocked applies the record-level effect of an immediate
// engine event. Callers must hold the lock.
func (s *Service) applyImmediateLocked(rec *player.Record, ev storm.Event, now time.Time) {
	switch ev.Kind {
	case storm.EventDeveloped, storm.EventWeakened:
		rec.Credit(ev.Reward)
	case storm.EventFailed:
		rec.ClearStorm(now)
	}
}

// firePendingLocked drains matured delayed events, applying their effects
// and returning the resulting deliveries. Stale events whose storm no
// longer exists are dropped. Callers must hold the lock.
func (s *Service) firePendingLocked(now time.Time) []outbound {
	var deliveries []outbound
	remaining := s.pending[:0]

	for _, pe := range s.pending {
		if now.Before(pe.dueAt) {
			remaining = append(remaining, pe)
			continue
		}

		rec, ok := s.records[pe.userID]
		if !ok || rec.Storm == nil || rec.Storm.ID != pe.stormID {
			continue
		}

		switch pe.event.Kind {
		case storm.EventDissipated:
			rec.Credit(pe.event.Reward)
			rec.ClearStorm(now)
			s.dirty = true
		case storm.EventColdWater:
			// Warning only; no state change.
		}

		ev := pe.event
		deliveries = append(deliveries, outbound{
			channelRef: rec.ChannelRef,
			userID:     pe.userID,
			event:      &ev,
		})
	}

	s.pending = remaining
	return deliveries
}

// deliver sends buffered tick output. A channel reference that no longer
// resolves is skipped silently; other delivery failures are logged, never
// retried, and never fatal to the loop.
func (s *Service) deliver(ctx context.Context, deliveries []outbound) {
	for _, d := range deliveries {
		if d.notice != nil {
			if err := s.messenger.SendDirect(ctx, *d.notice); err != nil {
				s.logf("tick: send tax notice to %s: %v", d.notice.UserID, err)
			}
			continue
		}
		if d.event == nil {
			continue
		}
		if err := s.broadcaster.Broadcast(ctx, d.channelRef, d.userID, *d.event); err != nil {
			if errors.Is(err, ErrChannelNotFound) {
				continue
			}
			s.logf("tick: broadcast storm event for %s: %v", d.userID, err)
		}
	}
}
