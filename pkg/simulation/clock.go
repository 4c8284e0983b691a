package simulation

import (
	"context"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/tochemey/goakt/v3/actor"
)

// RunClock sends a Tick to pid every interval until ctx is done, then returns nil.
// Pausing is handled by the actor, the clock keeps ticking.
func RunClock(ctx context.Context, interval time.Duration, pid *actor.PID) error {
	for range channerics.NewTicker(ctx.Done(), interval) {
		if err := actor.Tell(ctx, pid, Tick()); err != nil && ctx.Err() == nil {
			return err
		}
	}
	return nil
}
