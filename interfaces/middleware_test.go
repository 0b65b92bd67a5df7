package interfaces

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimitersDropIdleClients(t *testing.T) {
	limiters := newClientLimiters(1, 1)
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	first := limiters.get("10.0.0.1", start)
	limiters.get("10.0.0.2", start)
	assert.Len(t, limiters.clients, 2)
	assert.Same(t, first, limiters.get("10.0.0.1", start.Add(2*time.Minute)))

	// 10.0.0.2 has been idle past the limit, 10.0.0.1 has not.
	limiters.get("10.0.0.3", start.Add(limiterIdle+time.Second))
	assert.Len(t, limiters.clients, 2)
	assert.Contains(t, limiters.clients, "10.0.0.1")
	assert.NotContains(t, limiters.clients, "10.0.0.2")

	later := start.Add(3 * limiterIdle)
	limiters.get("10.0.0.4", later)
	assert.Len(t, limiters.clients, 1)
	assert.NotSame(t, first, limiters.get("10.0.0.1", later))
}
