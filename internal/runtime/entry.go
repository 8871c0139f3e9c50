package runtime

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/ports"
)

// entryToken identifies one in-flight scene entry. A later transition that
// exits the scene cancels the token's context; the entry observes that
// between awaited steps, rolls back whatever it built, and unwinds.
type entryToken struct {
	cancel context.CancelFunc
}

// enterScene runs the full entry sequence: stage clearing, enter hooks,
// resource instantiation, then delegated input subscriptions. Subscriptions
// attach last so a superseded entry never leaves live listeners behind.
func (e *Engine) enterScene(ctx context.Context, name, from string, op domain.TransitionOp, payload any) error {
	cfg, ok := e.Scene(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSceneNotFound, name)
	}

	entryCtx, cancel := context.WithCancel(ctx)
	tok := &entryToken{cancel: cancel}

	e.stateMu.Lock()
	epoch := e.epochs[name]
	e.inflight[name] = tok
	e.stateMu.Unlock()

	defer func() {
		e.stateMu.Lock()
		if e.inflight[name] == tok {
			delete(e.inflight, name)
		}
		e.stateMu.Unlock()
		cancel()
	}()

	stale := func() bool {
		if entryCtx.Err() != nil {
			return true
		}
		e.stateMu.Lock()
		defer e.stateMu.Unlock()
		return e.epochs[name] != epoch
	}

	if cfg.ClearStage {
		e.clearStage(cfg.ClearStageIgnore)
	}

	ev := domain.EnterEvent{Scene: name, From: from, Op: op, Payload: payload}
	for _, hook := range cfg.EnterHooks {
		if err := hook(entryCtx, ev); err != nil {
			return fmt.Errorf("enter %s: %w", name, err)
		}
		if stale() {
			return domain.ErrEntrySuperseded
		}
	}

	built, err := e.spawnResources(entryCtx, cfg, stale)
	if err != nil {
		e.rollback(built)
		return err
	}

	// Last staleness gate before anything observable attaches.
	if stale() {
		e.rollback(built)
		return domain.ErrEntrySuperseded
	}

	atts := e.attachBindings(cfg)

	e.stateMu.Lock()
	e.owned[name] = built
	e.attached[name] = atts
	e.stateMu.Unlock()

	return nil
}

// spawnResources instantiates the scene's declared resources in order,
// waiting the configured delay between items. A manager error on one item
// is logged and skipped; instantiation continues with the rest.
func (e *Engine) spawnResources(ctx context.Context, cfg *domain.SceneConfig, stale func() bool) ([]ports.Handle, error) {
	if e.resources == nil || len(cfg.Resources) == 0 {
		return nil, nil
	}

	var built []ports.Handle
	for i, rname := range cfg.Resources {
		if i > 0 && cfg.ResourceDelay > 0 {
			select {
			case <-time.After(cfg.ResourceDelay):
			case <-ctx.Done():
				return built, domain.ErrEntrySuperseded
			}
		}

		h, err := e.resources.Instantiate(ctx, rname)
		if err != nil {
			if ctx.Err() != nil {
				return built, domain.ErrEntrySuperseded
			}
			e.logger.Warn("resource instantiation failed", "resource", rname, "scene", cfg.Name, "err", err)
			continue
		}
		if h != nil {
			built = append(built, h)
		}
		if stale() {
			return built, domain.ErrEntrySuperseded
		}
	}
	return built, nil
}

// rollback destroys partially instantiated resources in reverse order.
func (e *Engine) rollback(built []ports.Handle) {
	if e.resources == nil {
		return
	}
	for i := len(built) - 1; i >= 0; i-- {
		e.resources.Destroy(built[i], false)
	}
}

// attachBindings installs the scene's delegated input subscriptions and
// host input subscriptions on their surfaces.
func (e *Engine) attachBindings(cfg *domain.SceneConfig) []attachment {
	var atts []attachment
	for _, b := range cfg.InputBindings {
		l, ok := e.tree.Get(b.Surface)
		if !ok {
			e.logger.Warn("input binding references unknown surface", "surface", b.Surface, "scene", cfg.Name)
			continue
		}
		sub := l.Subscribe(b.EventType, b.Selector, b.Handler)
		atts = append(atts, attachment{layer: b.Surface, sub: sub})
	}
	for _, b := range cfg.HostInputBindings {
		l, ok := e.tree.Get(b.Surface)
		if !ok {
			e.logger.Warn("host input binding references unknown surface", "surface", b.Surface, "scene", cfg.Name)
			continue
		}
		l.SubscribeToHost(b.EventType, b.Handler)
	}
	return atts
}

// clearStage destroys every clearable object under the stage root, except
// those whose names are listed in ignore.
func (e *Engine) clearStage(ignore []string) {
	if e.resources == nil {
		return
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
	}
	for _, res := range e.resources.FindAllUnder(e.resources.StageRoot()) {
		if _, ok := skip[res.Name]; ok {
			continue
		}
		e.resources.Destroy(res.Handle, false)
	}
}

// exitScene runs the scene's exit hooks, then tears down everything the
// scene owns: instantiated resources, delegated subscriptions, and finally
// the scene's surfaces per the preserve and cleanup declarations. An exit
// hook error aborts the transition; teardown has not happened yet.
func (e *Engine) exitScene(ctx context.Context, name, dest string, op domain.TransitionOp) error {
	cfg, ok := e.Scene(name)
	if !ok {
		e.logger.Warn("exiting unregistered scene", "scene", name)
		return nil
	}

	ev := domain.ExitEvent{Scene: name, To: dest, Op: op}
	for _, hook := range cfg.ExitHooks {
		if err := hook(ctx, ev); err != nil {
			return fmt.Errorf("exit hook for %s: %w", name, err)
		}
	}

	e.stateMu.Lock()
	e.epochs[name]++
	if tok, live := e.inflight[name]; live {
		tok.cancel()
	}
	built := e.owned[name]
	atts := e.attached[name]
	delete(e.owned, name)
	delete(e.attached, name)
	e.stateMu.Unlock()

	e.rollback(built)

	for _, att := range atts {
		if l, found := e.tree.Get(att.layer); found {
			l.Unsubscribe(att.sub)
		}
	}

	for _, surface := range e.exitSurfaces(cfg) {
		l, found := e.tree.Get(surface)
		if !found {
			continue
		}
		switch {
		case cfg.CleanupOnly(surface):
			l.ClearSubscriptions()
		case cfg.Preserved(surface):
			// Preserved surfaces keep content and listeners across exits.
		default:
			l.Reset()
		}
	}
	return nil
}

// exitSurfaces is every surface the scene touches: shown, declared, bound,
// preserved, or marked for cleanup.
func (e *Engine) exitSurfaces(cfg *domain.SceneConfig) []string {
	seen := make(map[string]struct{})
	for _, s := range cfg.Visible {
		seen[s] = struct{}{}
	}
	for s := range cfg.Surfaces {
		seen[s] = struct{}{}
	}
	for s := range cfg.PreserveOnExit {
		seen[s] = struct{}{}
	}
	for s := range cfg.CleanupOnExit {
		seen[s] = struct{}{}
	}
	for _, b := range cfg.InputBindings {
		seen[b.Surface] = struct{}{}
	}
	for _, b := range cfg.HostInputBindings {
		seen[b.Surface] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
