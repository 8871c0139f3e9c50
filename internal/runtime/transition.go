package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/effects"
)

// Switch replaces the entire stack with the target scene. Every stacked
// scene exits, top first, before the target enters.
func (e *Engine) Switch(ctx context.Context, target string, payload any) error {
	return e.transition(ctx, domain.OpSwitch, target, payload)
}

// Push enters the target scene on top of the current one. Nothing exits;
// the previous top's scoped listeners are detached and its surfaces swept
// per the target's visibility set.
func (e *Engine) Push(ctx context.Context, target string, payload any) error {
	return e.transition(ctx, domain.OpPush, target, payload)
}

// Pop exits the top scene and reactivates the one beneath it. The revealed
// scene is not re-entered: its enter hooks do not run again and its
// resources are assumed intact. Popping the last scene fails with
// ErrStackFloor.
func (e *Engine) Pop(ctx context.Context) error {
	return e.transition(ctx, domain.OpPop, "", nil)
}

func (e *Engine) transition(ctx context.Context, op domain.TransitionOp, target string, payload any) (err error) {
	from := e.Current()
	defer func() {
		e.observe(op, from, target, err)
	}()

	// Validate before doing anything irreversible.
	e.stateMu.Lock()
	switch op {
	case domain.OpSwitch, domain.OpPush:
		if _, ok := e.scenes[target]; !ok {
			e.stateMu.Unlock()
			e.logger.Warn("transition to unregistered scene", "op", op, "scene", target)
			return fmt.Errorf("%w: %s", domain.ErrSceneNotFound, target)
		}
		if e.isNoOpLocked(op, target) {
			e.stateMu.Unlock()
			return nil
		}
	case domain.OpPop:
		if len(e.stack) <= 1 {
			e.stateMu.Unlock()
			return domain.ErrStackFloor
		}
	}

	// Mark the scenes this operation will exit as superseded before
	// queuing behind any in-flight transition, so their pending entry
	// work observes the cancellation and unwinds instead of completing.
	switch op {
	case domain.OpSwitch:
		for _, name := range e.stack {
			e.supersedeLocked(name)
		}
	case domain.OpPop:
		e.supersedeLocked(e.stack[len(e.stack)-1])
	}
	e.stateMu.Unlock()

	e.runMu.Lock()
	defer e.runMu.Unlock()

	// Re-validate: a queued operation may find the world already changed.
	e.stateMu.Lock()
	stack := make([]string, len(e.stack))
	copy(stack, e.stack)
	e.stateMu.Unlock()

	switch op {
	case domain.OpSwitch, domain.OpPush:
		e.stateMu.Lock()
		noop := e.isNoOpLocked(op, target)
		e.stateMu.Unlock()
		if noop {
			return nil
		}
	case domain.OpPop:
		if len(stack) <= 1 {
			return domain.ErrStackFloor
		}
	}

	if err := e.yieldTurn(ctx); err != nil {
		return err
	}

	from = ""
	if len(stack) > 0 {
		from = stack[len(stack)-1]
	}

	var exiting []string
	var dest string
	switch op {
	case domain.OpSwitch:
		exiting = stack
		dest = target
	case domain.OpPop:
		exiting = stack[len(stack)-1:]
		dest = stack[len(stack)-2]
		target = dest
	}

	e.deactivateListeners()

	// The exit phase of the effect runs before teardown so the old scene
	// is still intact while it animates out. On pop the popped scene's own
	// effect applies; on switch and push the incoming scene's does.
	effectOwner := target
	if op == domain.OpPop {
		effectOwner = from
	}
	e.runEffectExit(ctx, effectOwner, from, target)

	// Exit top to bottom. Every exit hook sees the final destination, not
	// the scene beneath it on the stack.
	for i := len(exiting) - 1; i >= 0; i-- {
		if err := e.exitScene(ctx, exiting[i], dest, op); err != nil {
			return fmt.Errorf("exit %s: %w", exiting[i], err)
		}
	}

	var newStack []string
	switch op {
	case domain.OpSwitch:
		newStack = []string{target}
	case domain.OpPush:
		newStack = append(append([]string{}, stack...), target)
	case domain.OpPop:
		newStack = append([]string{}, stack[:len(stack)-1]...)
	}

	e.stateMu.Lock()
	e.stack = newStack
	e.stateMu.Unlock()

	rec := domain.StateChange{
		Op:        op,
		From:      from,
		To:        target,
		Stack:     append([]string{}, newStack...),
		Timestamp: time.Now(),
	}
	e.notifyChange(ctx, rec)

	cfg, ok := e.Scene(target)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSceneNotFound, target)
	}

	e.activateListeners(target)
	e.applyVisibility(cfg)

	if op != domain.OpPop {
		if err := e.enterScene(ctx, target, from, op, payload); err != nil {
			return err
		}
	}

	e.runEffectEnter(ctx, effectOwner, target, from)
	return nil
}

// isNoOpLocked reports whether the operation would change nothing: a switch
// to the sole active scene, or a push of the scene already on top. A switch
// to a scene that is on top of a deeper stack still collapses the stack and
// is not a no-op. Callers hold stateMu.
func (e *Engine) isNoOpLocked(op domain.TransitionOp, target string) bool {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1] != target {
		return false
	}
	return op == domain.OpPush || len(e.stack) == 1
}

// supersedeLocked bumps the scene's epoch and cancels its in-flight entry,
// if any. Callers hold stateMu.
func (e *Engine) supersedeLocked(name string) {
	e.epochs[name]++
	if tok, ok := e.inflight[name]; ok {
		tok.cancel()
	}
}

func (e *Engine) runEffectExit(ctx context.Context, owner, from, to string) {
	effect, d, ok := e.lookupEffect(owner)
	if !ok || effect.OnExit == nil {
		return
	}
	effect.OnExit(ctx, from, to, d)
}

func (e *Engine) runEffectEnter(ctx context.Context, owner, to, from string) {
	effect, d, ok := e.lookupEffect(owner)
	if !ok || effect.OnEnter == nil {
		return
	}
	effect.OnEnter(ctx, to, from, d)
}

func (e *Engine) lookupEffect(owner string) (effects.Effect, time.Duration, bool) {
	cfg, found := e.Scene(owner)
	if !found || cfg.Effect == "" {
		return effects.Effect{}, 0, false
	}
	eff, found := e.effects.Get(cfg.Effect)
	if !found {
		e.logger.Warn("unknown transition effect, skipping", "effect", cfg.Effect, "scene", owner)
		return effects.Effect{}, 0, false
	}
	return eff, cfg.EffectDuration, true
}
