package circuitbreaker

import (
	"sync"
	"sync/atomic"
	"time"
)

// State of a breaker. Closed lets calls through, Open rejects them,
// HalfOpen lets a trial call through after the cooldown.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker wraps a flaky dependency so the connectivity checks
// fail fast instead of hammering a service that is already down.
type CircuitBreaker struct {
	state            atomic.Value
	failureCount     atomic.Int32
	successCount     atomic.Int32
	lastFailureTime  atomic.Value
	failureThreshold int32
	successThreshold int32
	timeout          time.Duration
	mu               sync.RWMutex
	onStateChange    func(from, to State)
}

// NewCircuitBreaker returns a closed breaker. It opens after
// failureThreshold consecutive failures and closes again after
// successThreshold successes in the half-open state. timeout is the
// cooldown before an open breaker admits a trial call.
func NewCircuitBreaker(failureThreshold, successThreshold int32, timeout time.Duration) *CircuitBreaker {
	cb := &CircuitBreaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		onStateChange:    func(_, _ State) {},
	}
	cb.state.Store(StateClosed)
	return cb
}

// SetStateChangeCallback registers fn to be called on every transition.
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// RecordSuccess notes a successful call. Enough successes while
// half-open close the breaker; while closed it resets the failure run.
func (cb *CircuitBreaker) RecordSuccess() {
	switch cb.GetState() {
	case StateHalfOpen:
		cb.successCount.Add(1)
		if cb.successCount.Load() >= cb.successThreshold {
			cb.transition(StateClosed)
			cb.resetCounts()
		}
	case StateClosed:
		cb.failureCount.Store(0)
	}
}

// RecordFailure notes a failed call. A run of failures while closed
// trips the breaker open; any failure while half-open reopens it.
func (cb *CircuitBreaker) RecordFailure() {
	now := time.Now()
	cb.lastFailureTime.Store(&now)

	switch cb.GetState() {
	case StateClosed:
		cb.failureCount.Add(1)
		if cb.failureCount.Load() >= cb.failureThreshold {
			cb.transition(StateOpen)
			cb.resetCounts()
		}
	case StateHalfOpen:
		cb.transition(StateOpen)
		cb.resetCounts()
	}
}

// AllowRequest reports whether the next call may go through. An open
// breaker whose cooldown has elapsed flips to half-open and admits it.
func (cb *CircuitBreaker) AllowRequest() bool {
	switch cb.GetState() {
	case StateClosed, StateHalfOpen:
		return true
	}
	lastFailure, ok := cb.lastFailureTime.Load().(*time.Time)
	if !ok || lastFailure == nil {
		return false
	}
	if time.Since(*lastFailure) > cb.timeout {
		cb.transition(StateHalfOpen)
		cb.resetCounts()
		return true
	}
	return false
}

// GetState returns the current state.
func (cb *CircuitBreaker) GetState() State {
	return cb.state.Load().(State)
}

func (cb *CircuitBreaker) resetCounts() {
	cb.failureCount.Store(0)
	cb.successCount.Store(0)
}

func (cb *CircuitBreaker) transition(to State) {
	from := cb.GetState()
	if from == to {
		return
	}
	cb.state.Store(to)
	cb.mu.RLock()
	fn := cb.onStateChange
	cb.mu.RUnlock()
	if fn != nil {
		fn(from, to)
	}
}
