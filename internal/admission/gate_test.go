package admission

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finware/ledgerd/internal/domain"
)

type captureEvents struct {
	mu        sync.Mutex
	endpoints []string
	errTypes  []string
}

func (c *captureEvents) OperationFailed(_ context.Context, endpoint, errType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append(c.endpoints, endpoint)
	c.errTypes = append(c.errTypes, errType)
}

func TestAdmitRejectsEveryNth(t *testing.T) {
	events := &captureEvents{}
	g := NewGate(10, events)

	var rejected []int64
	for i := int64(1); i <= 30; i++ {
		if err := g.Admit(context.Background(), "/api/v1/balance"); err != nil {
			require.ErrorIs(t, err, domain.ErrRateLimited)
			rejected = append(rejected, i)
		}
	}

	assert.Equal(t, []int64{10, 20, 30}, rejected)
	assert.Equal(t, int64(30), g.Requests())
	require.Len(t, events.errTypes, 3)
	assert.Equal(t, "rate_limit", events.errTypes[0])
	assert.Equal(t, "/api/v1/balance", events.endpoints[0])
}

func TestAdmitDisabled(t *testing.T) {
	g := NewGate(0, nil)

	for range 100 {
		require.NoError(t, g.Admit(context.Background(), "/x"))
	}
	assert.Equal(t, int64(100), g.Requests())
}

func TestAdmitCountsGloballyAcrossEndpoints(t *testing.T) {
	g := NewGate(3, nil)

	var errs int
	for i, endpoint := range []string{"/a", "/b", "/c", "/a", "/b", "/c"} {
		if err := g.Admit(context.Background(), endpoint); err != nil {
			errs++
			// Stream positions 3 and 6, regardless of endpoint.
			assert.Contains(t, []int{2, 5}, i)
		}
	}
	assert.Equal(t, 2, errs)
}

func TestAdmitConcurrentRejectionCount(t *testing.T) {
	g := NewGate(10, nil)

	const total = 1000
	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0

	for range total {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Admit(context.Background(), "/x"); err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The counter is strictly monotonic, so exactly one in ten requests
	// lands on a multiple of ten no matter the interleaving.
	assert.Equal(t, total/10, rejected)
	assert.Equal(t, int64(total), g.Requests())
}
