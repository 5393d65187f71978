// Package actions tracks the lifecycle of user-initiated actions, one state machine per kind:
// Idle -> Pending -> {Succeeded, Failed} -> Idle.
package actions

import (
	"sync"
	"time"

	"github.com/vadiminshakov/whalehub/internal/domain"
)

// Transition one observed state change.
type Transition struct {
	Kind domain.ActionKind
	From domain.ActionState
	To   domain.ActionState
	Err  error
	At   time.Time
}

// Tracker holds the state of every action kind. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	states    map[domain.ActionKind]domain.ActionState
	observers []func(Transition)
}

// NewTracker creates a tracker with every kind Idle.
func NewTracker() *Tracker {
	states := make(map[domain.ActionKind]domain.ActionState, len(domain.ActionKinds))
	for _, kind := range domain.ActionKinds {
		states[kind] = domain.StateIdle
	}
	return &Tracker{states: states}
}

// OnTransition registers fn to be called after every transition.
func (t *Tracker) OnTransition(fn func(Transition)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Begin moves kind from Idle to Pending. It returns false when kind is not Idle.
func (t *Tracker) Begin(kind domain.ActionKind) bool {
	return t.move(kind, domain.StatePending, nil, domain.StateIdle)
}

// Complete moves kind from Pending to Succeeded (err == nil) or Failed.
func (t *Tracker) Complete(kind domain.ActionKind, err error) bool {
	to := domain.StateSucceeded
	if err != nil {
		to = domain.StateFailed
	}
	return t.move(kind, to, err, domain.StatePending)
}

// Reset moves kind back to Idle from any state.
func (t *Tracker) Reset(kind domain.ActionKind) {
	t.move(kind, domain.StateIdle, nil)
}

// State returns the current state of kind.
func (t *Tracker) State(kind domain.ActionKind) domain.ActionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[kind]
}

// Snapshot returns a copy of all states.
func (t *Tracker) Snapshot() map[domain.ActionKind]domain.ActionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[domain.ActionKind]domain.ActionState, len(t.states))
	for k, v := range t.states {
		out[k] = v
	}
	return out
}

func (t *Tracker) move(kind domain.ActionKind, to domain.ActionState, err error, allowed ...domain.ActionState) bool {
	t.mu.Lock()
	from := t.states[kind]
	if len(allowed) > 0 && !contains(allowed, from) {
		t.mu.Unlock()
		return false
	}
	if from == to {
		t.mu.Unlock()
		return true
	}
	t.states[kind] = to
	observers := append(([]func(Transition))(nil), t.observers...)
	t.mu.Unlock()

	tr := Transition{Kind: kind, From: from, To: to, Err: err, At: time.Now().UTC()}
	for _, fn := range observers {
		fn(tr)
	}
	return true
}

func contains(states []domain.ActionState, s domain.ActionState) bool {
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}
