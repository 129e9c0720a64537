package bot

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	t.Parallel()

	p := newPool(2)
	defer p.close()

	var ran atomic.Int64
	for i := 0; i < 20; i++ {
		assert.True(t, p.submit(func() { ran.Add(1) }))
	}
	p.flush()
	assert.Equal(t, int64(20), ran.Load())
}

func TestPoolBoundsConcurrency(t *testing.T) {
	t.Parallel()

	p := newPool(2)
	defer p.close()

	var mu sync.Mutex
	active, peak := 0, 0
	gate := make(chan struct{})

	for i := 0; i < 6; i++ {
		p.submit(func() {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()
			<-gate
			mu.Lock()
			active--
			mu.Unlock()
		})
	}
	close(gate)
	p.flush()

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, 2)
}

func TestPoolRejectsAfterClose(t *testing.T) {
	t.Parallel()

	p := newPool(1)
	assert.True(t, p.submit(func() {}))
	p.close()
	assert.False(t, p.submit(func() {}))

	// Close is idempotent.
	p.close()
}
