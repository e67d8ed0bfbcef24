// Package basket composes reconciled metrics, fund lists, chart series and
// projections into the views served to hosts.
package basket

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/basket-service/basket_service/internal/domain/catalog"
	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/graph"
	"github.com/basket-service/basket_service/internal/domain/services/orchestrator"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
	"github.com/basket-service/basket_service/internal/domain/services/reconcile"
	"github.com/basket-service/basket_service/pkg/logger"
	"github.com/basket-service/basket_service/pkg/metrics"
)

// Config holds view defaults. DefaultAmount is applied by callers that
// accept an optional amount; the service renders whatever it is given.
type Config struct {
	MinComparisonAmount float64
	DefaultHorizon      entities.Horizon
	DefaultAmount       float64
	CompareConcurrency  int
}

// DefaultConfig returns the defaults of the comparison screen
func DefaultConfig() Config {
	return Config{
		MinComparisonAmount: 1000,
		DefaultHorizon:      entities.Horizon5Y,
		DefaultAmount:       100000,
		CompareConcurrency:  4,
	}
}

// ViewRequest selects what to render
type ViewRequest struct {
	Identity string
	Horizon  entities.Horizon
	Amount   float64
	Mode     entities.SeriesMode
	Session  string
}

// remoteState is what is known about the remote payload when composing
type remoteState struct {
	payload *entities.RemoteBasketPayload
	status  orchestrator.Status
	err     error
	token   uint64
}

// Service builds basket views
type Service struct {
	catalog  *catalog.Catalog
	registry *orchestrator.Registry
	sessions *orchestrator.Sessions
	builder  *projection.Builder
	config   Config
	logger   *logger.Logger
}

// NewService creates a basket service
func NewService(
	cat *catalog.Catalog,
	registry *orchestrator.Registry,
	sessions *orchestrator.Sessions,
	builder *projection.Builder,
	config Config,
	log *logger.Logger,
) *Service {
	if config.CompareConcurrency <= 0 {
		config.CompareConcurrency = DefaultConfig().CompareConcurrency
	}
	if !config.DefaultHorizon.Valid() {
		config.DefaultHorizon = DefaultConfig().DefaultHorizon
	}
	metrics.InitReconciliationLabels(reconcile.Fields(), []string{
		string(reconcile.SourceRemote),
		string(reconcile.SourceLocal),
		string(reconcile.SourceDefault),
	})
	return &Service{
		catalog:  cat,
		registry: registry,
		sessions: sessions,
		builder:  builder,
		config:   config,
		logger:   log,
	}
}

// Config returns the effective service configuration
func (s *Service) Config() Config {
	return s.config
}

// List returns the catalog with a flag for remotely backed baskets
func (s *Service) List() []entities.BasketListItem {
	baskets := s.catalog.List()
	items := make([]entities.BasketListItem, 0, len(baskets))
	for _, b := range baskets {
		items = append(items, entities.BasketListItem{
			ID:            b.ID,
			Name:          b.Name,
			Description:   b.Description,
			RiskLevel:     b.RiskLevel,
			MinInvestment: b.MinInvestment,
			CAGR3Y:        b.CAGR3Y,
			CAGR5Y:        b.CAGR5Y,
			FundCount:     len(b.Funds),
			RemoteBacked:  s.registry.Supports(b.ID),
		})
	}
	return items
}

// Get returns a catalog basket
func (s *Service) Get(id string) (entities.Basket, error) {
	return s.catalog.Get(id)
}

// CreateSession starts a new viewing session
func (s *Service) CreateSession() string {
	return s.sessions.Create()
}

// Select dispatches a session fetch for a basket and horizon
func (s *Service) Select(ctx context.Context, session, identity string, horizon entities.Horizon) (orchestrator.Dispatch, error) {
	if _, err := s.catalog.Get(identity); err != nil {
		return orchestrator.Dispatch{}, err
	}
	return s.sessions.Get(session).Select(ctx, identity, horizon)
}

// View renders a basket from the session's current fetch state. When the
// session's last selection was for another horizon its payload is ignored.
// An unknown session renders as idle and is not created.
func (s *Service) View(ctx context.Context, req ViewRequest) (*entities.BasketView, error) {
	basket, err := s.catalog.Get(req.Identity)
	if err != nil {
		return nil, err
	}

	snap := orchestrator.Snapshot{Identity: req.Identity, Status: orchestrator.StatusIdle}
	if orch, ok := s.sessions.Lookup(req.Session); ok {
		snap = orch.Snapshot(req.Identity)
	}
	if req.Horizon == 0 {
		req.Horizon = snap.Horizon
	}
	req = s.withDefaults(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	state := remoteState{status: orchestrator.StatusIdle}
	if snap.Horizon == req.Horizon {
		state = remoteState{payload: snap.Payload, status: snap.Status, err: snap.Err, token: snap.Token}
	}
	return s.compose(ctx, basket, req, state)
}

// Project renders a basket by fetching its remote payload synchronously.
// A failed fetch still yields a view built from local data.
func (s *Service) Project(ctx context.Context, req ViewRequest) (*entities.BasketView, error) {
	basket, err := s.catalog.Get(req.Identity)
	if err != nil {
		return nil, err
	}
	req = s.withDefaults(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	state := remoteState{status: orchestrator.StatusIdle}
	if fetcher, ok := s.registry.Lookup(req.Identity); ok {
		payload, err := fetcher.FetchFor(ctx, req.Horizon)
		if err != nil {
			s.logger.ForBasket(req.Identity, req.Horizon.String()).
				CtxWarn(ctx, "Remote basket unavailable, using local data", "error", err)
			state = remoteState{status: orchestrator.StatusFailed, err: err}
		} else {
			state = remoteState{status: orchestrator.StatusSuccess, payload: payload}
		}
	}
	return s.compose(ctx, basket, req, state)
}

// Compare projects several baskets concurrently. Each basket degrades to
// local data on its own; only unknown baskets or bad inputs fail the call.
func (s *Service) Compare(ctx context.Context, identities []string, horizon entities.Horizon, amount float64) (*entities.Comparison, error) {
	if len(identities) == 0 {
		return nil, fmt.Errorf("%w: no baskets to compare", catalog.ErrUnknownBasket)
	}

	views := make([]*entities.BasketView, len(identities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.CompareConcurrency)

	for i, id := range identities {
		i, id := i, id
		g.Go(func() error {
			view, err := s.Project(gctx, ViewRequest{Identity: id, Horizon: horizon, Amount: amount})
			if err != nil {
				return fmt.Errorf("basket %s: %w", id, err)
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &entities.Comparison{
		Horizon: views[0].Horizon,
		Amount:  views[0].Amount,
		Baskets: make([]entities.BasketView, len(views)),
	}
	out.BenchmarkRate = views[0].Rates.Benchmark

	best := math.Inf(-1)
	for i, v := range views {
		out.Baskets[i] = *v
		if v.Summary.FinalBasketValue > best {
			best = v.Summary.FinalBasketValue
			out.BestBasketID = v.Basket.ID
		}
	}
	return out, nil
}

// Schedule runs the SIP ledger for a basket's reconciled rate at a horizon
func (s *Service) Schedule(ctx context.Context, identity string, horizon entities.Horizon, monthly float64) (projection.ScheduleResult, error) {
	view, err := s.Project(ctx, ViewRequest{Identity: identity, Horizon: horizon, Amount: monthly})
	if err != nil {
		return projection.ScheduleResult{}, err
	}
	return projection.SIPSchedule(projection.SIPPlan{
		Amount:         monthly,
		PeriodsPerYear: 12,
		AnnualRate:     view.Rates.Basket,
		Years:          int(view.Horizon),
	})
}

func (s *Service) withDefaults(req ViewRequest) ViewRequest {
	if req.Horizon == 0 {
		req.Horizon = s.config.DefaultHorizon
	}
	return req
}

func validateRequest(req ViewRequest) error {
	if !req.Horizon.Valid() {
		return fmt.Errorf("%w: got %d", projection.ErrInvalidHorizon, int(req.Horizon))
	}
	if req.Amount < 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return fmt.Errorf("%w: got %v", projection.ErrInvalidAmount, req.Amount)
	}
	if req.Mode != "" && !req.Mode.Valid() {
		return fmt.Errorf("%w: got %q", graph.ErrInvalidMode, req.Mode)
	}
	return nil
}

func (s *Service) compose(ctx context.Context, basket entities.Basket, req ViewRequest, state remoteState) (*entities.BasketView, error) {
	payload := state.payload

	reconciled, sources := reconcile.ReconcileWithSources(basket, payload)
	funds, fundsSource := reconcile.FundsWithSource(basket, payload)
	minInvestment := reconcile.MinInvestment(basket, payload)
	recordReconciliation(payload != nil, sources, fundsSource)

	rates, err := s.builder.RatesFor(reconciled, req.Horizon)
	if err != nil {
		return nil, err
	}
	rows, err := s.builder.Table(rates, req.Amount)
	if err != nil {
		return nil, err
	}

	view := &entities.BasketView{
		Basket:                 basket,
		Horizon:                req.Horizon,
		Amount:                 req.Amount,
		Metrics:                reconciled,
		Funds:                  funds,
		Allocation:             reconcile.AllocationByCategory(funds),
		Rates:                  entities.ProjectionRates{Basket: rates.Basket, Benchmark: rates.Benchmark},
		Projection:             rows,
		Summary:                projection.Summarize(rows),
		MinInvestment:          minInvestment,
		BelowMinimum:           req.Amount < minInvestment,
		BelowComparisonMinimum: req.Amount < s.config.MinComparisonAmount,
		RemoteBacked:           s.registry.Supports(basket.ID),
		Status:                 string(state.status),
		Loading:                state.status == orchestrator.StatusLoading,
		Token:                  state.token,
	}
	if state.err != nil {
		view.Error = "Live data is unavailable right now; showing the basket's reference figures."
	}
	if payload != nil {
		view.PeriodReturns = payload.PeriodReturns
	}

	var graphData *entities.RemoteGraphData
	if payload != nil {
		graphData = payload.GraphData
	}
	res := graph.Resolve(graphData, req.Mode)
	if res.OK {
		view.Series = res.Points
		view.SeriesSource = entities.SeriesSourceRemote
		view.SeriesModes = res.Modes
		if len(res.Modes) > 0 {
			view.SelectedMode = req.Mode
			if view.SelectedMode == "" {
				view.SelectedMode = entities.SeriesModeAbsolute
			}
		}
	} else {
		if errors.Is(res.Err, graph.ErrMalformedGraph) {
			metrics.RecordMalformedGraph(basket.ID)
			s.logger.CtxWarn(ctx, "Ignoring malformed remote graph payload",
				"basket", basket.ID,
				"error", res.Err)
		}
		chart, err := s.builder.Chart(rates, req.Amount)
		if err != nil {
			return nil, err
		}
		view.Series = chart
		view.SeriesSource = entities.SeriesSourceSynthesized
	}

	metrics.RecordProjection(req.Horizon.String(), string(view.SeriesSource), req.Amount)
	return view, nil
}

func recordReconciliation(payloadPresent bool, sources map[string]reconcile.Source, fundsSource reconcile.Source) {
	labels := make(map[string]string, len(sources))
	for field, src := range sources {
		labels[field] = string(src)
	}
	metrics.RecordReconciliation(payloadPresent, labels, string(fundsSource))
}
