package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

type Config struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration

	// MinRequests is how many calls a window needs before it can trip.
	// FailureRatio is the share of failures that opens the breaker.
	MinRequests  uint32
	FailureRatio float64

	// IsSuccessful decides which errors still count as a healthy call.
	// Nil counts every error as a failure.
	IsSuccessful func(err error) bool

	// OnStateChange is notified on every transition
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:  3,
		Interval:     10 * time.Second,
		Timeout:      60 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// New builds a breaker named after the upstream it guards. Zero trip
// thresholds fall back to DefaultConfig.
func New(name string, cfg Config) *gobreaker.CircuitBreaker {
	defaults := DefaultConfig()
	if cfg.MinRequests == 0 {
		cfg.MinRequests = defaults.MinRequests
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = defaults.FailureRatio
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		IsSuccessful:  cfg.IsSuccessful,
		OnStateChange: cfg.OnStateChange,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return ShouldTrip(counts, cfg.MinRequests, cfg.FailureRatio)
		},
	})
}

// ShouldTrip reports whether a window's counts cross the failure threshold
func ShouldTrip(counts gobreaker.Counts, minRequests uint32, failureRatio float64) bool {
	if counts.Requests < minRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
}
