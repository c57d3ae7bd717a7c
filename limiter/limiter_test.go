package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestPer(t *testing.T) {
	assert.Equal(t, rate.Every(200*time.Millisecond), Per(5, time.Second))
}

func TestMultiLimiterUsesSlowestRate(t *testing.T) {
	fast := NewLimiter(100, time.Second, 1)
	slow := NewLimiter(1, time.Minute, 1)

	l := NewMultiLimiter(fast, slow)
	assert.Equal(t, slow.Limit(), l.Limit())
	assert.Equal(t, rate.Inf, NewMultiLimiter().Limit())
}

func TestMultiLimiterWaitHonoursContext(t *testing.T) {
	l := NewMultiLimiter(NewLimiter(1, time.Hour, 1))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, l.Wait(ctx), "first token is available immediately")
	assert.Error(t, l.Wait(ctx), "second token would exceed the deadline")
}

func TestNewLimiterWithoutConfig(t *testing.T) {
	assert.Equal(t, rate.Inf, NewLimiter(0, time.Second, 0).Limit())
}
