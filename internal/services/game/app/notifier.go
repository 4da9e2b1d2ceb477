package app

import (
	"context"
	"errors"

	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/tax"
)

// ErrChannelNotFound is returned by a Broadcaster when the stored channel
// reference no longer resolves. The tick loop skips such deliveries
// silently.
var ErrChannelNotFound = errors.New("channel not found")

// DirectMessenger delivers a private notice to one player, independent of
// any channel context.
type DirectMessenger interface {
	SendDirect(ctx context.Context, notice tax.Notice) error
}

// Broadcaster delivers a storm event to the channel its storm was spawned
// from. The channel reference is opaque to the core.
type Broadcaster interface {
	Broadcast(ctx context.Context, channelRef, userID string, event storm.Event) error
}
