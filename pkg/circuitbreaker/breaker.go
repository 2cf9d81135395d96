package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker is a thin wrapper over gobreaker for callers that only need
// an error-returning closure.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func New(name string) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
