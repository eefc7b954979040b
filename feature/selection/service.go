package selection

import (
	"context"
	"sync"

	"map-editor/core/feature"
	"map-editor/core/policy"
	"map-editor/core/session"

	"go.uber.org/zap"
)

// lockedView wraps a map view so that snapshot deliveries take the service lock.
// Subscribe must be called with the lock held. Snapshots delivered before
// the underlying Subscribe returns are handed to fn by the subscribing caller.
type lockedView struct {
	session.MapView
	mu *sync.Mutex
}

func (v lockedView) Subscribe(fn func(*feature.Snapshot)) func() {
	var (
		gate    sync.Mutex
		ready   bool
		pending []*feature.Snapshot
	)
	unsubscribe := v.MapView.Subscribe(func(s *feature.Snapshot) {
		gate.Lock()
		if !ready {
			pending = append(pending, s)
			gate.Unlock()
			return
		}
		gate.Unlock()

		v.mu.Lock()
		defer v.mu.Unlock()
		fn(s)
	})

	gate.Lock()
	ready = true
	early := pending
	pending = nil
	gate.Unlock()

	for _, s := range early {
		fn(s)
	}
	return unsubscribe
}

// Service serialises access to one engine session.
type Service struct {
	mu       sync.Mutex
	session  *session.Session
	registry *policy.Registry
	logger   *zap.Logger
	revision uint64
}

// NewService creates a session over view and starts it. The view may deliver
// its current snapshot during construction.
func NewService(view session.MapView, registry *policy.Registry, opts session.Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Service{registry: registry, logger: opts.Logger}
	s.session = session.New(lockedView{MapView: view, mu: &s.mu}, opts)
	s.session.OnChange(func(ev session.Event) {
		s.revision++
		if ev.BufferDiscarded {
			s.logger.Info("Edit buffer discarded by selection change", zap.String("reason", string(ev.Selection.Reason)))
		}
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Start()
	return s
}

// Close stops the session.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Close()
}

func (s *Service) state() State {
	return buildState(s.session, s.revision)
}

// State returns the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

// Do runs fn against the session under the lock and returns the resulting state.
func (s *Service) Do(fn func(*session.Session)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session)
	return s.state()
}

// Edit runs an edit operation reporting success and bumps the revision when it succeeded.
func (s *Service) Edit(fn func(*session.Session) bool) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := fn(s.session)
	if ok {
		s.revision++
	}
	return s.state(), ok
}

// Commit commits the active buffer.
func (s *Service) Commit() (session.Commit, State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.session.CommitEdits()
	if ok {
		s.revision++
	}
	return c, s.state(), ok
}

// Policies returns the registry's current policies.
func (s *Service) Policies() policy.Set {
	return s.registry.Current()
}

// ReloadPolicies reloads the registry. The session picks the new set up on
// its next reconciliation pass.
func (s *Service) ReloadPolicies(ctx context.Context) (policy.Set, error) {
	return s.registry.Reload(ctx)
}
