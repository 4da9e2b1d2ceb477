package game

import (
	"context"
	"log"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/tax"
)

// logMessenger and logBroadcaster log tick output. The chat gateway that
// delivers real messages runs as a separate process and injects its own
// implementations; the standalone daemon keeps the simulation advancing
// and its output visible.

type logMessenger struct{}

func (logMessenger) SendDirect(_ context.Context, notice tax.Notice) error {
	log.Printf("tax notice: user=%s amount=%d", notice.UserID, notice.Amount)
	return nil
}

type logBroadcaster struct{}

func (logBroadcaster) Broadcast(_ context.Context, channelRef, userID string, event storm.Event) error {
	log.Printf("storm event: user=%s channel=%s kind=%d stage=%q reward=%d",
		userID, channelRef, event.Kind, event.Stage.String(), event.Reward)
	return nil
}
