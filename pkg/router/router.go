package router

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	perrors "github.com/vango-dev/pathway/internal/errors"
	"github.com/vango-dev/pathway/pkg/history"
	"github.com/vango-dev/pathway/pkg/routepath"
)

// Phase is a step of the navigation state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseBeforeHook
	PhaseCommitting
	PhaseAfterHook
	PhaseSettled
	PhaseCancelled
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseResolving:
		return "resolving"
	case PhaseBeforeHook:
		return "before_hook"
	case PhaseCommitting:
		return "committing"
	case PhaseAfterHook:
		return "after_hook"
	case PhaseSettled:
		return "settled"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

type scrollPos struct{ x, y int }

// Router coordinates navigations: resolve, before hook, history commit,
// component mount, after hook, settle. Its methods are safe for concurrent
// use. No lock is held while hooks, subscribers, middleware, components or
// the history adapter run, so all of them may call back into the router.
type Router struct {
	logger     *slog.Logger
	debug      bool
	table      *Table
	resolver   *Resolver
	cleaner    routepath.Cleaner
	components map[string]ComponentFactory
	policy     ConcurrencyPolicy
	strategy   MountStrategy
	preRender  bool
	scrolling  bool
	scanner    AnchorScanner
	scroller   Scroller

	history     history.History
	ownsHistory bool
	unlisten    func()

	gen atomic.Uint64

	mu         sync.Mutex
	current    *RouteState
	last       *RouteState
	pending    history.Action
	isFirst    bool
	target     any
	href       string
	before     HookFunc
	after      HookFunc
	middleware []Middleware
	cancelPrev context.CancelFunc
	scroll     map[string]scrollPos
	closed     bool

	subs subscribers
}

// New creates a router. It fails only on a bad route table. When the
// history backend cannot be created the error is logged and the router is
// returned non-functional: every navigation ends OutcomeUnavailable.
func New(opts Options) (*Router, error) {
	table, err := NewTable(opts.Routes)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "router")

	strategy := opts.MountStrategy
	if strategy == "" {
		strategy = MountReplace
	}

	cleaner := routepath.Cleaner{BasePath: opts.BasePath, Locale: opts.Locale}
	r := &Router{
		logger:     logger,
		debug:      opts.DebugMode,
		table:      table,
		resolver:   NewResolver(table, cleaner, opts.Components),
		cleaner:    cleaner,
		components: opts.Components,
		policy:     opts.Concurrency,
		strategy:   strategy,
		preRender:  opts.PreRendered,
		scrolling:  opts.RestoreScroll && opts.Scroller != nil,
		scanner:    opts.Scanner,
		scroller:   opts.Scroller,
		pending:    history.Pop,
		isFirst:    true,
		before:     DefaultBeforeEach,
		after:      DefaultAfterEach,
		middleware: append([]Middleware(nil), opts.Middleware...),
		scroll:     make(map[string]scrollPos),
	}

	h := opts.History
	if h == nil {
		mode := opts.mode()
		h, err = history.New(mode, opts.Window, opts.historyOptions()...)
		if err != nil {
			logger.Error("history adapter unavailable",
				"mode", mode,
				"error", perrors.New("H001").Wrap(err))
			return r, nil
		}
		r.ownsHistory = true
	}
	r.history = h
	r.unlisten = h.Listen(r.onPop)
	return r, nil
}

// Available reports whether the router has a history adapter.
func (r *Router) Available() bool {
	return r.history != nil
}

// Table returns the route table.
func (r *Router) Table() *Table {
	return r.table
}

// History returns the history adapter, or nil when unavailable.
func (r *Router) History() history.History {
	return r.history
}

// CurrentRoute returns the committed route, or nil.
func (r *Router) CurrentRoute() *RouteState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// LastRoute returns the last settled route, or nil.
func (r *Router) LastRoute() *RouteState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// PendingAction returns the history action of the navigation being
// committed, or Pop when idle.
func (r *Router) PendingAction() history.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// IsFirstRoute reports whether no navigation has settled yet.
func (r *Router) IsFirstRoute() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isFirst
}

// BeforeEach replaces the before hook. nil restores DefaultBeforeEach.
func (r *Router) BeforeEach(fn HookFunc) {
	if fn == nil {
		fn = DefaultBeforeEach
	}
	r.mu.Lock()
	r.before = fn
	r.mu.Unlock()
}

// AfterEach replaces the after hook. nil restores DefaultAfterEach.
func (r *Router) AfterEach(fn HookFunc) {
	if fn == nil {
		fn = DefaultAfterEach
	}
	r.mu.Lock()
	r.after = fn
	r.mu.Unlock()
}

// Subscribe registers fn for events of type t and returns a function that
// removes it. Subscribers run alongside the hook slots and cannot cancel.
func (r *Router) Subscribe(t EventType, fn func(Event)) (unsubscribe func()) {
	return r.subs.add(t, fn)
}

// Use appends middleware.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	r.middleware = append(r.middleware, mw...)
	r.mu.Unlock()
}

// Resolve resolves req without navigating.
func (r *Router) Resolve(req Request) (Resolution, error) {
	return r.resolver.Resolve(req)
}

// Href returns the pathname?query#hash the router would write for req.
func (r *Router) Href(req Request) (string, error) {
	res, err := r.resolver.Resolve(req)
	if err != nil {
		return "", err
	}
	return r.location(res.State).Href(), nil
}

// Mount binds target and navigates silently to the current location.
func (r *Router) Mount(ctx context.Context, target any) Outcome {
	r.mu.Lock()
	r.target = target
	r.mu.Unlock()

	var req Request
	if r.history != nil {
		req = requestFrom(r.history.Location())
	}
	return r.navigate(ctx, req.AsReplace(), history.Replace)
}

// Navigate pushes req, or replaces the current entry when req.Silent. It
// never fails loudly: failures are logged and reported as the Outcome.
func (r *Router) Navigate(ctx context.Context, req Request) Outcome {
	action := history.Push
	if req.Silent {
		action = history.Replace
	}
	return r.navigate(ctx, req, action)
}

// Replace is Navigate with req.Silent set.
func (r *Router) Replace(ctx context.Context, req Request) Outcome {
	return r.navigate(ctx, req.AsReplace(), history.Replace)
}

// Go moves n entries through history. The move comes back as a pop.
func (r *Router) Go(n int) {
	if r.history == nil {
		r.logger.Warn("go ignored", "delta", n, "error", perrors.New("H003").Wrap(ErrUnavailable))
		return
	}
	r.history.Go(n)
}

// Back is Go(-1).
func (r *Router) Back() { r.Go(-1) }

// Forward is Go(1).
func (r *Router) Forward() { r.Go(1) }

// Close detaches from history, drops subscribers and destroys the mounted
// component. Later navigations end OutcomeUnavailable.
func (r *Router) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	current := r.current
	cancel := r.cancelPrev
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if r.unlisten != nil {
		r.unlisten()
	}
	r.subs.clear()
	if current != nil && current.Instance != nil {
		current.Instance.Destroy()
	}
	if r.ownsHistory {
		return r.history.Close()
	}
	return nil
}

func (r *Router) onPop(loc history.Location, _ history.Action) {
	r.navigate(context.Background(), requestFrom(loc).AsReplace(), history.Pop)
}

// requestFrom rebuilds a request from a history entry, preferring the
// route state recorded with it.
func requestFrom(loc history.Location) Request {
	if st, ok := loc.State.(RouteState); ok {
		return Request{Path: st.Path, Query: st.Query, Hash: st.Hash}
	}
	return Request{Path: loc.Pathname, Query: loc.Search, Hash: loc.Hash}
}

func (r *Router) follow(href string) {
	r.Navigate(context.Background(), To(href))
}

func (r *Router) navigate(ctx context.Context, req Request, action history.Action) Outcome {
	r.mu.Lock()
	from := r.last
	mw := r.middleware
	r.mu.Unlock()

	nav := &Navigation{
		ID:      uuid.New(),
		Request: req,
		Action:  action,
		Started: time.Now(),
		From:    from,
	}

	ctx, gen, done := r.begin(ctx)
	defer done()
	nav.Ctx = ctx

	err := ComposeMiddleware(nav, mw, func() error {
		nav.ran = true
		nav.Err = r.run(nav.Ctx, nav, gen)
		if nav.Outcome != OutcomeNoOp {
			nav.Outcome = OutcomeOf(nav.Err)
		}
		return nav.Err
	})
	if !nav.ran {
		nav.Err = err
		nav.Outcome = OutcomeOf(err)
		if err == nil {
			nav.Outcome = OutcomeCancelled
		}
	}

	r.report(nav)
	return nav.Outcome
}

// begin starts an attempt. Under SupersedePrevious the previous attempt's
// context is cancelled.
func (r *Router) begin(ctx context.Context) (context.Context, uint64, func()) {
	gen := r.gen.Inc()
	if r.policy != SupersedePrevious {
		return ctx, gen, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	prev := r.cancelPrev
	r.cancelPrev = cancel
	r.mu.Unlock()
	if prev != nil {
		prev()
	}

	return ctx, gen, func() {
		cancel()
		r.mu.Lock()
		if r.gen.Load() == gen {
			r.cancelPrev = nil
		}
		r.mu.Unlock()
	}
}

// gate is checked at every phase boundary.
func (r *Router) gate(ctx context.Context, gen uint64) error {
	if r.policy == SupersedePrevious && r.gen.Load() != gen {
		return perrors.New("R006").Wrap(ErrSuperseded)
	}
	return ctx.Err()
}

func (r *Router) run(ctx context.Context, nav *Navigation, gen uint64) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if r.history == nil || closed {
		return perrors.New("H003").Wrap(ErrUnavailable)
	}

	r.trace(nav, PhaseResolving)
	if err := r.gate(ctx, gen); err != nil {
		return err
	}
	res, err := r.resolver.Resolve(nav.Request)
	if err != nil {
		return err
	}
	nav.To = res.State

	r.mu.Lock()
	if res.State.Equal(r.current) {
		r.mu.Unlock()
		nav.Outcome = OutcomeNoOp
		return nil
	}
	from := r.last
	before := r.before
	r.mu.Unlock()
	nav.From = from

	r.trace(nav, PhaseBeforeHook)
	r.subs.publish(Event{Type: EventBeforeEach, NavigationID: nav.ID, From: from, To: res.State, Action: nav.Action})
	if !before(ctx, from, res.State) {
		r.trace(nav, PhaseCancelled)
		return coded("K001", ErrHookRejected, "to %q", res.State.Path)
	}
	if err := r.gate(ctx, gen); err != nil {
		return err
	}

	r.trace(nav, PhaseCommitting)
	state, err := r.commit(nav, res)
	if err != nil {
		return err
	}
	nav.To = state

	r.mu.Lock()
	after := r.after
	r.mu.Unlock()

	r.trace(nav, PhaseAfterHook)
	r.subs.publish(Event{Type: EventAfterEach, NavigationID: nav.ID, From: from, To: state, Action: nav.Action})
	if !after(ctx, from, state) {
		r.trace(nav, PhaseCancelled)
		return coded("K002", ErrHookRejected, "to %q", state.Path)
	}
	if err := r.gate(ctx, gen); err != nil {
		return err
	}

	r.settle(nav, res, state)
	return nil
}

// commit makes state current, writes history and mounts the component.
// A history failure restores the previous current route.
func (r *Router) commit(nav *Navigation, res Resolution) (*RouteState, error) {
	state := res.State
	write := history.Push
	if nav.Request.Silent {
		write = history.Replace
	}

	r.mu.Lock()
	prev := r.current
	prevHref := r.href
	r.current = state
	r.pending = write
	first := r.isFirst
	target := r.target
	r.mu.Unlock()

	r.saveScroll(prevHref)

	loc := r.location(state)
	var err error
	if write == history.Replace {
		err = r.history.Replace(loc)
	} else {
		err = r.history.Push(loc)
	}
	if err != nil {
		r.mu.Lock()
		if r.current == state {
			r.current = prev
		}
		r.pending = history.Pop
		r.mu.Unlock()
		return nil, coded("H002", ErrHistoryWrite, "%s %s: %v", write, loc.Href(), err)
	}

	r.mu.Lock()
	r.href = loc.Href()
	r.mu.Unlock()

	key := res.Handler.ComponentKey()
	if key == "" {
		return state, nil
	}

	inst, err := r.mountComponent(key, state, target, first)
	if err != nil {
		return nil, err
	}
	mounted := state.withInstance(inst)
	r.mu.Lock()
	if r.current == state {
		r.current = mounted
	}
	r.mu.Unlock()
	return mounted, nil
}

func (r *Router) mountComponent(key string, state *RouteState, target any, first bool) (Component, error) {
	inst := r.components[key](state)
	if inst == nil {
		return nil, coded("R007", ErrMountFailed, "component %q: factory returned nil", key)
	}

	var err error
	if first && r.preRender {
		err = inst.PreRenderMount(target)
	} else {
		err = inst.Mount(target, r.strategy)
	}
	if err != nil {
		return nil, coded("R007", ErrMountFailed, "component %q: %v", key, err)
	}
	return inst, nil
}

func (r *Router) settle(nav *Navigation, res Resolution, state *RouteState) {
	if cb := res.Handler.Callback(); cb != nil {
		cb(state)
	}

	r.mu.Lock()
	target := r.target
	r.mu.Unlock()
	if r.scanner != nil {
		r.scanner.Scan(target, r.follow)
	}

	r.mu.Lock()
	r.last = state
	r.isFirst = false
	r.pending = history.Pop
	href := r.href
	r.mu.Unlock()

	r.applyScroll(nav.Action, href)
	r.trace(nav, PhaseSettled)
	r.subs.publish(Event{Type: EventRouteChanged, NavigationID: nav.ID, From: nav.From, To: state, Action: nav.Action})
}

// location is the history entry recorded for state.
func (r *Router) location(state *RouteState) history.Location {
	return history.Location{
		Pathname: r.cleaner.Pathname(state.Path),
		Search:   state.Query,
		Hash:     state.Hash,
		State:    state.snapshot(),
	}
}

func (r *Router) saveScroll(href string) {
	if !r.scrolling || href == "" {
		return
	}
	x, y := r.scroller.ScrollPosition()
	r.mu.Lock()
	r.scroll[href] = scrollPos{x: x, y: y}
	r.mu.Unlock()
}

func (r *Router) applyScroll(action history.Action, href string) {
	if !r.scrolling {
		return
	}
	switch action {
	case history.Push:
		r.scroller.ScrollTo(0, 0)
	case history.Pop:
		r.mu.Lock()
		pos := r.scroll[href]
		r.mu.Unlock()
		r.scroller.ScrollTo(pos.x, pos.y)
	}
}

func (r *Router) trace(nav *Navigation, phase Phase) {
	if !r.debug {
		return
	}
	r.logger.Debug("navigation phase",
		"id", nav.ID,
		"phase", phase,
		"action", nav.Action,
		"path", nav.Request.Path,
		"name", nav.Request.Name)
}

func (r *Router) report(nav *Navigation) {
	attrs := []any{
		"id", nav.ID,
		"action", nav.Action,
		"outcome", nav.Outcome,
		"duration", time.Since(nav.Started),
	}
	if nav.To != nil {
		attrs = append(attrs, "route", nav.To.Name, "path", nav.To.Path)
	} else {
		attrs = append(attrs, "path", nav.Request.Path, "name", nav.Request.Name)
	}
	if nav.Err != nil {
		attrs = append(attrs, "error", nav.Err)
	}

	switch nav.Outcome {
	case OutcomeNotFound, OutcomeMissingHandler:
		r.logger.Warn("navigation dropped", attrs...)
	case OutcomeUnavailable, OutcomeFailed:
		r.logger.Error("navigation failed", attrs...)
	default:
		if r.debug {
			r.logger.Debug("navigation", attrs...)
		}
	}
}
