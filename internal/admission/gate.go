// Package admission implements the global request admission gate: a
// process-lifetime counter that rejects every Nth inbound request. The
// policy is deliberately crude; it exists to exercise failure paths,
// not to protect capacity.
package admission

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/finware/ledgerd/internal/domain"
)

// Events receives the typed rejection signal before the request reaches
// any other component. Implementations must not block.
type Events interface {
	OperationFailed(ctx context.Context, endpoint, errType string)
}

type Gate struct {
	everyN int64
	count  atomic.Int64
	events Events
}

// NewGate builds a gate rejecting every everyN-th request. everyN <= 0
// disables rejection entirely. events may be nil.
func NewGate(everyN int64, events Events) *Gate {
	return &Gate{everyN: everyN, events: events}
}

// Admit counts the request against the global stream and decides whether
// it proceeds. The counter is monotonic and never resets for the life of
// the process.
func (g *Gate) Admit(ctx context.Context, endpoint string) error {
	seq := g.count.Add(1)
	if g.everyN <= 0 || seq%g.everyN != 0 {
		return nil
	}

	if g.events != nil {
		g.events.OperationFailed(ctx, endpoint, "rate_limit")
	}
	return fmt.Errorf("admission.Admit: request %d: %w", seq, domain.ErrRateLimited)
}

// Requests reports how many requests the gate has counted so far.
func (g *Gate) Requests() int64 {
	return g.count.Load()
}
