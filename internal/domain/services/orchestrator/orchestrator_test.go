package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/pkg/logger"
)

// MockFetcher is a mock implementation of Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	args := m.Called(ctx, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RemoteBasketPayload), args.Error(1)
}

type result struct {
	payload *entities.RemoteBasketPayload
	err     error
}

// gatedFetcher blocks each horizon's fetch until the test releases it
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[entities.Horizon]chan result
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[entities.Horizon]chan result)}
}

func (g *gatedFetcher) gate(h entities.Horizon) chan result {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[h]
	if !ok {
		ch = make(chan result, 1)
		g.gates[h] = ch
	}
	return ch
}

func (g *gatedFetcher) FetchFor(ctx context.Context, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	select {
	case r := <-g.gate(horizon):
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedFetcher) release(h entities.Horizon, payload *entities.RemoteBasketPayload, err error) {
	g.gate(h) <- result{payload: payload, err: err}
}

func waitDone(t *testing.T, d Dispatch) {
	t.Helper()
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch %d did not complete", d.Token)
	}
}

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *Registry) {
	registry := NewRegistry()
	return New(registry, logger.NewLogger(zaptest.NewLogger(t)), opts...), registry
}

func payloadNamed(name string) *entities.RemoteBasketPayload {
	return &entities.RemoteBasketPayload{Name: name}
}

func TestOrchestrator_UnsupportedIdentityStaysIdle(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	d, err := o.Select(context.Background(), "white-basket-local", entities.Horizon5Y)
	require.NoError(t, err)
	waitDone(t, d)

	snap := o.Snapshot("white-basket-local")
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, entities.Horizon5Y, snap.Horizon)
	assert.Nil(t, snap.Payload)
	assert.NoError(t, snap.Err)
	assert.Zero(t, d.Token)
}

func TestOrchestrator_SnapshotOfUnknownIdentity(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	snap := o.Snapshot("never-selected")
	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.Loading())
}

func TestOrchestrator_Success(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := new(MockFetcher)
	registry.Register("great-india", fetcher)

	payload := payloadNamed("Great India")
	fetcher.On("FetchFor", mock.Anything, entities.Horizon3Y).Return(payload, nil)

	d, err := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	require.NoError(t, err)
	assert.NotZero(t, d.Token)
	waitDone(t, d)

	snap := o.Snapshot("great-india")
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Same(t, payload, snap.Payload)
	assert.Equal(t, d.Token, snap.Token)
	fetcher.AssertExpectations(t)
}

func TestOrchestrator_Failure(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := new(MockFetcher)
	registry.Register("great-india", fetcher)

	fetchErr := errors.New("upstream returned 502")
	fetcher.On("FetchFor", mock.Anything, entities.Horizon10Y).Return(nil, fetchErr)

	d, err := o.Select(context.Background(), "great-india", entities.Horizon10Y)
	require.NoError(t, err)
	waitDone(t, d)

	snap := o.Snapshot("great-india")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, fetchErr)
	assert.Nil(t, snap.Payload)
}

func TestOrchestrator_LoadingClearsPreviousState(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := newGatedFetcher()
	registry.Register("great-india", fetcher)

	d, err := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	require.NoError(t, err)
	fetcher.release(entities.Horizon3Y, payloadNamed("three"), nil)
	waitDone(t, d)
	require.Equal(t, StatusSuccess, o.Snapshot("great-india").Status)

	_, err = o.Select(context.Background(), "great-india", entities.Horizon5Y)
	require.NoError(t, err)

	snap := o.Snapshot("great-india")
	assert.True(t, snap.Loading())
	assert.Equal(t, entities.Horizon5Y, snap.Horizon)
	assert.Nil(t, snap.Payload)
	assert.NoError(t, snap.Err)
}

func TestOrchestrator_StaleResolutionDiscarded(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := newGatedFetcher()
	registry.Register("great-india", fetcher)

	d3, err := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	require.NoError(t, err)
	d5, err := o.Select(context.Background(), "great-india", entities.Horizon5Y)
	require.NoError(t, err)
	assert.Greater(t, d5.Token, d3.Token)

	five := payloadNamed("five")
	fetcher.release(entities.Horizon5Y, five, nil)
	waitDone(t, d5)

	fetcher.release(entities.Horizon3Y, payloadNamed("three"), nil)
	waitDone(t, d3)

	snap := o.Snapshot("great-india")
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, entities.Horizon5Y, snap.Horizon)
	assert.Same(t, five, snap.Payload)
	assert.Equal(t, d5.Token, snap.Token)
}

func TestOrchestrator_StaleFailureDoesNotOverwrite(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := newGatedFetcher()
	registry.Register("great-india", fetcher)

	d3, _ := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	d10, _ := o.Select(context.Background(), "great-india", entities.Horizon10Y)

	fetcher.release(entities.Horizon3Y, nil, errors.New("timeout"))
	waitDone(t, d3)

	snap := o.Snapshot("great-india")
	assert.True(t, snap.Loading())
	assert.NoError(t, snap.Err)

	fetcher.release(entities.Horizon10Y, payloadNamed("ten"), nil)
	waitDone(t, d10)
	assert.Equal(t, StatusSuccess, o.Snapshot("great-india").Status)
}

func TestOrchestrator_SlotsAreIndependent(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	a := newGatedFetcher()
	b := newGatedFetcher()
	registry.Register("great-india", a)
	registry.Register("raising-india", b)

	da, _ := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	db, _ := o.Select(context.Background(), "raising-india", entities.Horizon3Y)

	b.release(entities.Horizon3Y, nil, errors.New("boom"))
	waitDone(t, db)
	a.release(entities.Horizon3Y, payloadNamed("great"), nil)
	waitDone(t, da)

	assert.Equal(t, StatusSuccess, o.Snapshot("great-india").Status)
	assert.Equal(t, StatusFailed, o.Snapshot("raising-india").Status)
}

func TestOrchestrator_InvalidHorizon(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	registry.Register("great-india", newGatedFetcher())

	_, err := o.Select(context.Background(), "great-india", entities.Horizon(4))
	assert.ErrorIs(t, err, entities.ErrInvalidHorizon)
	assert.Equal(t, StatusIdle, o.Snapshot("great-india").Status)
}

func TestOrchestrator_FetcherPanicBecomesFailure(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	registry.Register("great-india", FetcherFunc(func(context.Context, entities.Horizon) (*entities.RemoteBasketPayload, error) {
		panic("decoder exploded")
	}))

	d, err := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	require.NoError(t, err)
	waitDone(t, d)

	snap := o.Snapshot("great-india")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, snap.Err.Error(), "decoder exploded")
}

func TestOrchestrator_FetchOutlivesCallerContext(t *testing.T) {
	o, registry := newTestOrchestrator(t)
	fetcher := newGatedFetcher()
	registry.Register("great-india", fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	d, err := o.Select(ctx, "great-india", entities.Horizon5Y)
	require.NoError(t, err)
	cancel()

	fetcher.release(entities.Horizon5Y, payloadNamed("five"), nil)
	waitDone(t, d)
	assert.Equal(t, StatusSuccess, o.Snapshot("great-india").Status)
}

func TestOrchestrator_FetchTimeout(t *testing.T) {
	o, registry := newTestOrchestrator(t, WithFetchTimeout(20*time.Millisecond))
	registry.Register("great-india", newGatedFetcher())

	d, err := o.Select(context.Background(), "great-india", entities.Horizon3Y)
	require.NoError(t, err)
	waitDone(t, d)

	snap := o.Snapshot("great-india")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, context.DeadlineExceeded)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register("raising-india", newGatedFetcher())
	registry.Register("great-india", newGatedFetcher())

	assert.Equal(t, []string{"great-india", "raising-india"}, registry.Identities())
	assert.True(t, registry.Supports("great-india"))
	assert.False(t, registry.Supports("unknown"))

	_, ok := registry.Lookup("unknown")
	assert.False(t, ok)
}

func TestSessions(t *testing.T) {
	registry := NewRegistry()
	sessions := NewSessions(registry, logger.NewLogger(zaptest.NewLogger(t)))

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	id := sessions.Create()
	assert.NotEmpty(t, id)

	first := sessions.Get(id)
	assert.Same(t, first, sessions.Get(id))

	_, ok := sessions.Lookup("missing")
	assert.False(t, ok)

	sessions.Get("other")
	assert.Equal(t, 2, sessions.Len())

	now = now.Add(20 * time.Minute)
	sessions.Get("other")

	removed := sessions.Sweep(15 * time.Minute)
	assert.Equal(t, 1, removed)
	_, ok = sessions.Lookup(id)
	assert.False(t, ok)
	_, ok = sessions.Lookup("other")
	assert.True(t, ok)
}
