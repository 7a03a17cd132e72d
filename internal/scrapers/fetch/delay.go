package fetch

import (
	"context"
	"time"

	"github.com/ps-vitor/landscraper/internal/config"
)

// Pacer sleeps a random duration in [min, max] between page requests.
type Pacer struct {
	min, max time.Duration
	rand     Rand
	sleep    SleepFunc
}

func NewPacer(cfg config.RateLimitConfig, rnd Rand, sleep SleepFunc) *Pacer {
	if rnd == nil {
		rnd = globalRand{}
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return &Pacer{min: cfg.MinDelay, max: cfg.MaxDelay, rand: rnd, sleep: sleep}
}

// Next returns the next pause length.
func (p *Pacer) Next() time.Duration {
	diff := p.max - p.min
	if diff <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.rand.Int63n(int64(diff)+1))
}

// Wait blocks for Next(), returning early with ctx's error if it is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.sleep(ctx, p.Next())
}
