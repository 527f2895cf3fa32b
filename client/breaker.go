package client

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

var errCircuitOpen = errors.New("circuit breaker open")

// breakers holds one circuit breaker per registry host.
type breakers struct {
	byHost map[string]*circuit.Breaker
	mu     sync.RWMutex
}

func newBreakers() *breakers {
	return &breakers{byHost: make(map[string]*circuit.Breaker)}
}

// get returns or creates the circuit breaker for host.
func (b *breakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, exists := b.byHost[host]
	b.mu.RUnlock()

	if exists {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, exists := b.byHost[host]; exists {
		return breaker
	}

	// Trips after 5 consecutive failures
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	b.byHost[host] = breaker
	return breaker
}

// extractHost returns the breaker key for a request URL.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
