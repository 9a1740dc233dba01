package engine

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"go.uber.org/zap"
)

// Default polling cadences. These are configuration, not architecture: any
// interval preserves the transition-detection semantics.
const (
	DefaultPollInterval = 5 * time.Second
	BannerPollInterval  = 3 * time.Second
)

// Config describes one UI surface. Every surface owns its poller, local
// view and patch set; surfaces never share state with each other, only the
// remote store.
type Config struct {
	// Name tags log lines, e.g. "order-board" or "alert-banner"
	Name string

	// Interval between polls; DefaultPollInterval when zero
	Interval time.Duration

	// PatchTTL bounds unconfirmed optimistic patches; DefaultPatchTTL
	// when zero
	PatchTTL time.Duration

	// Fetch produces the surface's snapshot each tick
	Fetch FetchFunc

	// Store receives the surface's commands
	Store domain.StoreClient

	// Effector performs side effects; nil discards them
	Effector Effector

	// Prefs gates cosmetic effects; nil leaves them enabled
	Prefs Preferences

	Logger *zap.Logger
}

// Surface is one independently polling client of the record store. The
// surrounding UI consumes it through OnViewChanged, OnTransition and
// IssueCommand without any knowledge of polling or reconciliation
// internals.
type Surface struct {
	name       string
	poller     *Poller
	reconciler *Reconciler
	detector   *Detector
	dispatcher *Dispatcher
	issuer     *Issuer
	patches    *PatchSet
	logger     *zap.Logger

	// applyMu serializes snapshot application end to end so transitions
	// and alert levels reach consumers in application order.
	applyMu sync.Mutex

	// mu guards the views, the applied sequence and the subscriber lists.
	mu         sync.Mutex
	view       Snapshot
	confirmed  Snapshot
	appliedSeq uint64
	viewSubs   []func(Snapshot)
	transSubs  []func(Transition)
}

// NewSurface wires a surface from its parts. Call Start to begin polling.
func NewSurface(cfg Config) *Surface {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	logger := cfg.Logger.With(zap.String("surface", cfg.Name))

	patches := NewPatchSet(cfg.PatchTTL)

	s := &Surface{
		name:       cfg.Name,
		reconciler: NewReconciler(patches, logger),
		detector:   NewDetector(),
		dispatcher: NewDispatcher(cfg.Effector, cfg.Prefs, logger),
		patches:    patches,
		logger:     logger,
		view:       Snapshot{Orders: make(map[string]domain.Order)},
		confirmed:  Snapshot{Orders: make(map[string]domain.Order)},
	}
	s.poller = NewPoller(cfg.Interval, cfg.Fetch, s.apply, logger)
	s.issuer = NewIssuer(cfg.Store, patches, s.applyOptimistic, s.poller.Kick, logger)

	return s
}

// Start begins the surface's polling loop
func (s *Surface) Start(ctx context.Context) {
	s.logger.Info("surface started")
	s.poller.Start(ctx)
}

// Stop halts polling. In-flight fetches issued before Stop are discarded,
// never applied.
func (s *Surface) Stop() {
	s.poller.Stop()
	s.logger.Info("surface stopped")
}

// OnViewChanged registers a callback invoked with a copy of the view after
// every change, optimistic or reconciled
func (s *Surface) OnViewChanged(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewSubs = append(s.viewSubs, fn)
}

// OnTransition registers a callback invoked once per detected transition
func (s *Surface) OnTransition(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transSubs = append(s.transSubs, fn)
}

// IssueCommand submits a mutation for an order through the surface's
// command issuer
func (s *Surface) IssueCommand(ctx context.Context, orderID string, patch domain.OrderPatch) error {
	return s.issuer.Submit(ctx, orderID, patch)
}

// View returns a copy of the current local view
func (s *Surface) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Clone()
}

// apply consumes one completed fetch. Failed fetches keep the last good
// view; completions of fetches older than the newest applied one are
// discarded so the view never regresses to stale state
// (last-fetch-started-wins).
func (s *Surface) apply(seq uint64, snap Snapshot, err error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if err != nil {
		// The poller already logged it. Patch expiry still runs: an
		// unreachable store must not pin the optimistic view forever.
		s.expireUnconfirmed()
		return
	}

	s.mu.Lock()
	if seq <= s.appliedSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding out-of-order fetch result",
			zap.Uint64("seq", seq),
			zap.Uint64("applied_seq", s.appliedSeq),
		)
		return
	}

	merged := s.reconciler.Merge(snap, time.Now())
	obs := s.detector.Observe(merged.Orders)

	s.view = merged
	s.confirmed = snap
	s.appliedSeq = seq
	view := merged.Clone()
	viewSubs := slices.Clone(s.viewSubs)
	transSubs := slices.Clone(s.transSubs)
	s.mu.Unlock()

	s.notify(view, obs, viewSubs, transSubs)
}

// expireUnconfirmed discards patches past their window and re-merges the
// last store-confirmed snapshot so the view reverts to it even while
// fetches keep failing.
func (s *Surface) expireUnconfirmed() {
	now := time.Now()
	expired := s.patches.SweepExpired(now)
	if len(expired) == 0 {
		return
	}
	for _, id := range expired {
		s.logger.Warn("optimistic patch expired unconfirmed, reverting to store state",
			zap.String("order_id", id),
		)
	}

	s.mu.Lock()
	merged := s.reconciler.Merge(s.confirmed, now)
	obs := s.detector.Observe(merged.Orders)

	s.view = merged
	view := merged.Clone()
	viewSubs := slices.Clone(s.viewSubs)
	transSubs := slices.Clone(s.transSubs)
	s.mu.Unlock()

	s.notify(view, obs, viewSubs, transSubs)
}

func (s *Surface) notify(view Snapshot, obs Observation, viewSubs []func(Snapshot), transSubs []func(Transition)) {
	for _, fn := range viewSubs {
		fn(view)
	}
	for _, t := range obs.Transitions {
		s.dispatcher.HandleTransition(t)
		for _, fn := range transSubs {
			fn(t)
		}
	}
	s.dispatcher.HandleAlertLevel(obs.AlertLevel)
}

// applyOptimistic patches the local view immediately after a command is
// issued, before the store has confirmed anything
func (s *Surface) applyOptimistic(orderID string, patch domain.OrderPatch) {
	s.mu.Lock()
	order, ok := s.view.Orders[orderID]
	if ok {
		patch.ApplyTo(&order)
		s.view.Orders[orderID] = order
	}
	view := s.view.Clone()
	viewSubs := slices.Clone(s.viewSubs)
	s.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range viewSubs {
		fn(view)
	}
}
