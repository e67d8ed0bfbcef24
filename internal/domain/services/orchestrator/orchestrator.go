// Package orchestrator issues remote basket fetches and tracks their state
// per basket identity, discarding resolutions that have been superseded.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/pkg/logger"
	"github.com/basket-service/basket_service/pkg/metrics"
)

// Status is the fetch state of a basket slot
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Snapshot is a copy of a slot's state
type Snapshot struct {
	Identity string
	Horizon  entities.Horizon
	Status   Status
	Payload  *entities.RemoteBasketPayload
	Err      error
	Token    uint64
}

// Loading reports whether a fetch is outstanding
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoading
}

// Dispatch identifies one Select call. Done is closed once its resolution
// has been applied or discarded; for identities without a remote source it
// is closed immediately.
type Dispatch struct {
	Token uint64
	done  <-chan struct{}
}

// Done returns the completion channel
func (d Dispatch) Done() <-chan struct{} {
	return d.done
}

type slot struct {
	horizon entities.Horizon
	status  Status
	payload *entities.RemoteBasketPayload
	err     error
	token   uint64
}

// Orchestrator owns one slot per basket identity. Slots are independent;
// only the most recent dispatch for an identity may change its state.
type Orchestrator struct {
	registry     *Registry
	logger       *logger.Logger
	fetchTimeout time.Duration

	mu        sync.Mutex
	slots     map[string]*slot
	lastToken uint64
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithFetchTimeout bounds every fetch. Zero leaves fetches unbounded.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.fetchTimeout = d
	}
}

// New creates an orchestrator over registry
func New(registry *Registry, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		logger:   log,
		slots:    make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Select records identity and horizon as the current selection. For a
// remotely backed identity the slot enters Loading, forgets its previous
// payload and error, and a fetch runs in the background. The caller never
// waits on the fetch. The fetch outlives ctx cancellation but keeps its values.
func (o *Orchestrator) Select(ctx context.Context, identity string, horizon entities.Horizon) (Dispatch, error) {
	if !horizon.Valid() {
		return Dispatch{}, fmt.Errorf("%w: got %d", entities.ErrInvalidHorizon, int(horizon))
	}

	fetcher, ok := o.registry.Lookup(identity)

	o.mu.Lock()
	s := o.slot(identity)
	s.horizon = horizon
	if !ok {
		o.mu.Unlock()
		return Dispatch{done: closedChan()}, nil
	}

	o.lastToken++
	token := o.lastToken
	s.token = token
	s.status = StatusLoading
	s.payload = nil
	s.err = nil
	o.mu.Unlock()

	metrics.RecordFetchDispatch(identity, horizon.String())

	done := make(chan struct{})
	go o.run(context.WithoutCancel(ctx), fetcher, identity, horizon, token, done)

	return Dispatch{Token: token, done: done}, nil
}

func (o *Orchestrator) run(ctx context.Context, fetcher Fetcher, identity string, horizon entities.Horizon, token uint64, done chan struct{}) {
	defer close(done)

	if o.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
		defer cancel()
	}

	payload, err := o.fetch(ctx, fetcher, horizon)
	o.resolve(identity, horizon, token, payload, err)
}

func (o *Orchestrator) fetch(ctx context.Context, fetcher Fetcher, horizon entities.Horizon) (payload *entities.RemoteBasketPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("fetcher panicked: %v", r)
		}
	}()
	return fetcher.FetchFor(ctx, horizon)
}

func (o *Orchestrator) resolve(identity string, horizon entities.Horizon, token uint64, payload *entities.RemoteBasketPayload, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.slots[identity]
	if s == nil || s.token != token {
		metrics.RecordFetchResolution(identity, "stale_discarded")
		o.logger.Debugw("Discarding superseded fetch resolution",
			"basket", identity,
			"horizon", horizon.String(),
			"token", token)
		return
	}

	if err != nil {
		s.status = StatusFailed
		s.err = err
		s.payload = nil
		metrics.RecordFetchResolution(identity, "failed")
		o.logger.ForBasket(identity, horizon.String()).Warnw("Remote basket fetch failed", "error", err)
		return
	}

	s.status = StatusSuccess
	s.payload = payload
	metrics.RecordFetchResolution(identity, "success")
}

// Snapshot returns a copy of the identity's slot. Unknown identities report Idle.
func (o *Orchestrator) Snapshot(identity string) Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.slots[identity]
	if !ok {
		return Snapshot{Identity: identity, Status: StatusIdle}
	}
	return Snapshot{
		Identity: identity,
		Horizon:  s.horizon,
		Status:   s.status,
		Payload:  s.payload,
		Err:      s.err,
		Token:    s.token,
	}
}

// slot returns the identity's slot, creating an Idle one. Callers hold o.mu.
func (o *Orchestrator) slot(identity string) *slot {
	s, ok := o.slots[identity]
	if !ok {
		s = &slot{status: StatusIdle}
		o.slots[identity] = s
	}
	return s
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
