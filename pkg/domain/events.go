package domain

import (
	"context"
	"time"
)

// TransitionOp identifies which stack operation produced a state change.
type TransitionOp string

const (
	OpSwitch TransitionOp = "switch"
	OpPush   TransitionOp = "push"
	OpPop    TransitionOp = "pop"
)

// EventStateChanged is the bus event emitted after every completed stack
// mutation. Its payload is a *StateChange.
const EventStateChanged = "scenestack.state_changed"

// StateChange records one completed stack mutation.
type StateChange struct {
	Op        TransitionOp `json:"op"`
	From      string       `json:"from,omitempty"`
	To        string       `json:"to"`
	Stack     []string     `json:"stack"`
	Timestamp time.Time    `json:"timestamp"`
}

// EnterEvent is passed to enter hooks when a scene becomes active.
type EnterEvent struct {
	Scene   string
	From    string
	Op      TransitionOp
	Payload any
}

// ExitEvent is passed to exit hooks when a scene leaves the stack. To is the
// final destination of the ongoing operation, not any intermediate stack
// entry.
type ExitEvent struct {
	Scene string
	To    string
	Op    TransitionOp
}

// EnterHook runs while a scene is being entered. The context is cancelled if
// a later transition supersedes this entry; hooks doing long-running work
// should check it between steps. A returned error propagates to the caller
// of the transition.
type EnterHook func(ctx context.Context, ev EnterEvent) error

// ExitHook runs while a scene is leaving the stack.
type ExitHook func(ctx context.Context, ev ExitEvent) error
