package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/basket-service/basket_service/internal/domain/catalog"
	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/basket"
	"github.com/basket-service/basket_service/internal/domain/services/orchestrator"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
	"github.com/basket-service/basket_service/internal/infrastructure/cache"
	"github.com/basket-service/basket_service/pkg/health"
	"github.com/basket-service/basket_service/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type viewBody struct {
	Basket struct {
		ID string `json:"id"`
	} `json:"basket"`
	Horizon entities.Horizon `json:"horizon"`
	Rates   struct {
		Basket    float64 `json:"basketRate"`
		Benchmark float64 `json:"benchmarkRate"`
	} `json:"rates"`
	Projection   []entities.ProjectionRow `json:"projection"`
	SeriesSource string                   `json:"seriesSource"`
	Status       string                   `json:"status"`
	Token        uint64                   `json:"token"`
	BelowMinimum bool                     `json:"belowMinimum"`
}

func setupBasketRouter(t *testing.T, fetchers map[string]orchestrator.Fetcher, invalidator *cache.CacheInvalidator) *gin.Engine {
	t.Helper()
	zapLog := zaptest.NewLogger(t)
	log := logger.NewLogger(zapLog)

	registry := orchestrator.NewRegistry()
	for id, f := range fetchers {
		registry.Register(id, f)
	}
	svc := basket.NewService(
		catalog.Default(),
		registry,
		orchestrator.NewSessions(registry, log),
		projection.NewBuilder(projection.DefaultBenchmarks()),
		basket.DefaultConfig(),
		log,
	)

	h := NewBasketHandlers(svc, invalidator, zapLog)
	calc := NewCalculatorHandlers(zapLog)

	router := gin.New()
	router.GET("/api/v1/baskets", h.ListBaskets)
	router.GET("/api/v1/baskets/:id", h.GetBasket)
	router.GET("/api/v1/baskets/:id/projection", h.GetProjection)
	router.GET("/api/v1/baskets/:id/projection/export", h.ExportProjection)
	router.GET("/api/v1/baskets/:id/sip", h.GetSchedule)
	router.GET("/api/v1/compare", h.Compare)
	router.POST("/api/v1/sessions", h.CreateSession)
	router.POST("/api/v1/sessions/:session/baskets/:id/select", h.SelectBasket)
	router.GET("/api/v1/sessions/:session/baskets/:id", h.GetSessionView)
	router.DELETE("/api/v1/admin/cache", h.InvalidateAllCache)
	router.DELETE("/api/v1/admin/cache/baskets/:id", h.InvalidateBasketCache)
	router.POST("/api/v1/calculators/sip", calc.SIP)
	router.POST("/api/v1/calculators/lumpsum", calc.Lumpsum)
	router.POST("/api/v1/calculators/goal", calc.Goal)
	return router
}

func serve(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) entities.ErrorResponse {
	t.Helper()
	var resp entities.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBasketHandlers_ListAndGet(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	w := serve(router, http.MethodGet, "/api/v1/baskets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Baskets []entities.BasketListItem `json:"baskets"`
		Count   int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, len(list.Baskets), list.Count)
	assert.NotZero(t, list.Count)

	w = serve(router, http.MethodGet, "/api/v1/baskets/great-india", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Great India Basket")

	w = serve(router, http.MethodGet, "/api/v1/baskets/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BASKET_NOT_FOUND", decodeError(t, w).Code)
}

func TestBasketHandlers_GetProjection(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, view viewBody)
	}{
		{
			name:           "local figures at 3 years",
			query:          "?years=3&amount=100000",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, view viewBody) {
				assert.Equal(t, entities.Horizon3Y, view.Horizon)
				assert.Equal(t, 17.9, view.Rates.Basket)
				assert.Equal(t, 11.5, view.Rates.Benchmark)
				assert.Len(t, view.Projection, 3)
				assert.Equal(t, string(entities.SeriesSourceSynthesized), view.SeriesSource)
			},
		},
		{
			name:           "defaults to five years",
			query:          "",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, view viewBody) {
				assert.Equal(t, entities.Horizon5Y, view.Horizon)
				assert.Len(t, view.Projection, 5)
			},
		},
		{
			name:           "year suffix accepted",
			query:          "?years=10Y",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, view viewBody) {
				assert.Equal(t, entities.Horizon10Y, view.Horizon)
				assert.InDelta(t, 19.6*0.95, view.Rates.Basket, 1e-9)
			},
		},
		{
			name:           "below minimum is flagged not rejected",
			query:          "?amount=500",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, view viewBody) {
				assert.True(t, view.BelowMinimum)
			},
		},
		{name: "unsupported horizon", query: "?years=4", expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_HORIZON"},
		{name: "non numeric amount", query: "?amount=lots", expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_AMOUNT"},
		{name: "negative amount", query: "?amount=-10", expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_AMOUNT"},
		{name: "unknown mode", query: "?mode=weekly", expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, "/api/v1/baskets/great-india/projection"+tt.query, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
				return
			}
			var view viewBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
			tt.checkResponse(t, view)
		})
	}
}

func TestBasketHandlers_RemoteFailureDegrades(t *testing.T) {
	router := setupBasketRouter(t, map[string]orchestrator.Fetcher{
		"great-india": orchestrator.FetcherFunc(func(ctx context.Context, h entities.Horizon) (*entities.RemoteBasketPayload, error) {
			return nil, errors.New("connection refused")
		}),
	}, nil)

	w := serve(router, http.MethodGet, "/api/v1/baskets/great-india/projection?years=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view viewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 17.9, view.Rates.Basket)
	assert.Equal(t, string(orchestrator.StatusFailed), view.Status)
}

func TestBasketHandlers_ExportProjection(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	w := serve(router, http.MethodGet, "/api/v1/baskets/great-india/projection/export?years=3&amount=100000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "great-india-projection-3Y.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Year,Great India Basket Returns (₹),Nifty Index Returns (₹)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,117900,111500"))
}

func TestBasketHandlers_GetSchedule(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	w := serve(router, http.MethodGet, "/api/v1/baskets/great-india/sip?years=3&monthly=5000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result projection.ScheduleResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 180000.0, result.TotalInvested)
	assert.Len(t, result.Yearly, 3)

	w = serve(router, http.MethodGet, "/api/v1/baskets/great-india/sip?years=3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
}

func TestBasketHandlers_Compare(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	w := serve(router, http.MethodGet, "/api/v1/compare?ids=great-india,%20conservative-balanced&years=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cmp entities.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	require.Len(t, cmp.Baskets, 2)
	assert.Equal(t, "great-india", cmp.Baskets[0].Basket.ID)
	assert.Equal(t, "conservative-balanced", cmp.Baskets[1].Basket.ID)

	best := cmp.Baskets[0]
	if cmp.Baskets[1].Summary.FinalBasketValue > best.Summary.FinalBasketValue {
		best = cmp.Baskets[1]
	}
	assert.Equal(t, best.Basket.ID, cmp.BestBasketID)

	w = serve(router, http.MethodGet, "/api/v1/compare", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, http.MethodGet, "/api/v1/compare?ids=great-india,missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBasketHandlers_SessionFlow(t *testing.T) {
	payload := &entities.RemoteBasketPayload{}
	require.NoError(t, json.Unmarshal([]byte(`{"metrics": {"cagr3Y": 21}}`), payload))

	router := setupBasketRouter(t, map[string]orchestrator.Fetcher{
		"great-india": orchestrator.FetcherFunc(func(ctx context.Context, h entities.Horizon) (*entities.RemoteBasketPayload, error) {
			return payload, nil
		}),
	}, nil)

	w := serve(router, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created entities.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	base := "/api/v1/sessions/" + created.SessionID + "/baskets/great-india"

	w = serve(router, http.MethodPost, base+"/select?years=3&wait=true", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view viewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 21.0, view.Rates.Basket)
	assert.Equal(t, string(orchestrator.StatusSuccess), view.Status)
	assert.NotZero(t, view.Token)

	w = serve(router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var again viewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, entities.Horizon3Y, again.Horizon)
	assert.Equal(t, view.Token, again.Token)

	w = serve(router, http.MethodPost, base+"/select?years=5", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var ack entities.SelectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Greater(t, ack.Token, view.Token)
	assert.Equal(t, entities.Horizon5Y, ack.Horizon)

	w = serve(router, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/baskets/missing/select", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBasketHandlers_InvalidateCache(t *testing.T) {
	t.Run("no cache configured", func(t *testing.T) {
		router := setupBasketRouter(t, nil, nil)
		w := serve(router, http.MethodDelete, "/api/v1/admin/cache", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("drops basket entries", func(t *testing.T) {
		mem := cache.NewMemoryCache()
		ctx := context.Background()
		require.NoError(t, mem.Set(ctx, cache.Key("great-india", entities.Horizon3Y), []byte(`{}`), 0))
		require.NoError(t, mem.Set(ctx, cache.Key("great-india", entities.Horizon5Y), []byte(`{}`), 0))
		require.NoError(t, mem.Set(ctx, cache.Key("raising-india", entities.Horizon5Y), []byte(`{}`), 0))

		router := setupBasketRouter(t, nil, cache.NewCacheInvalidator(mem, zaptest.NewLogger(t)))

		w := serve(router, http.MethodDelete, "/api/v1/admin/cache/baskets/great-india", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"basketId": "great-india", "removed": 2}`, w.Body.String())

		w = serve(router, http.MethodDelete, "/api/v1/admin/cache/baskets/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = serve(router, http.MethodDelete, "/api/v1/admin/cache", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"removed": 1}`, w.Body.String())
	})
}

func TestCalculatorHandlers(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "sip", path: "/api/v1/calculators/sip", body: `{"amount": 5000, "annualRate": 12, "years": 3}`, expectedStatus: http.StatusOK},
		{name: "sip with step-up", path: "/api/v1/calculators/sip", body: `{"amount": 5000, "annualRate": 12, "years": 3, "stepUp": "percent", "stepUpPercent": 10}`, expectedStatus: http.StatusOK},
		{name: "sip zero years", path: "/api/v1/calculators/sip", body: `{"amount": 5000, "annualRate": 12, "years": 0}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_REQUEST"},
		{name: "sip bad step-up kind", path: "/api/v1/calculators/sip", body: `{"amount": 5000, "annualRate": 12, "years": 3, "stepUp": "double"}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_REQUEST"},
		{name: "lumpsum", path: "/api/v1/calculators/lumpsum", body: `{"principal": 100000, "annualRate": 12, "years": 5}`, expectedStatus: http.StatusOK},
		{name: "lumpsum malformed", path: "/api/v1/calculators/lumpsum", body: `{"principal": "lots"}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_REQUEST"},
		{name: "goal", path: "/api/v1/calculators/goal", body: `{"name": "College", "currentCost": 1000000, "years": 10, "inflationRate": 6, "expectedReturn": 12}`, expectedStatus: http.StatusOK},
		{name: "goal inflation out of range", path: "/api/v1/calculators/goal", body: `{"currentCost": 1000000, "years": 10, "inflationRate": 80, "expectedReturn": 12}`, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_PLAN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodPost, tt.path, []byte(tt.body))
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestCalculatorHandlers_SIPDisplay(t *testing.T) {
	router := setupBasketRouter(t, nil, nil)

	w := serve(router, http.MethodPost, "/api/v1/calculators/lumpsum", []byte(`{"principal": 1000, "annualRate": 0, "years": 1}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1000.0, resp.Corpus)
	assert.Equal(t, "₹1,000.00", resp.CorpusDisplay)
	assert.Equal(t, "₹1,000.00", resp.InvestedDisplay)
}

type stubChecker struct {
	name   string
	status health.Status
}

func (s stubChecker) Check(ctx context.Context) health.CheckResult {
	return health.NewCheckResult(s.name, s.status, "", nil)
}

func (s stubChecker) Name() string { return s.name }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		required       health.Status
		optional       health.Status
		expectedStatus int
		expectedHealth health.Status
		expectedReady  int
	}{
		{"all healthy", health.StatusHealthy, health.StatusHealthy, http.StatusOK, health.StatusHealthy, http.StatusOK},
		{"remote down degrades", health.StatusHealthy, health.StatusUnhealthy, http.StatusOK, health.StatusDegraded, http.StatusOK},
		{"cache down fails", health.StatusUnhealthy, health.StatusHealthy, http.StatusServiceUnavailable, health.StatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := health.NewHealthChecker(0)
			checker.Register(stubChecker{name: "redis", status: tt.required})
			checker.RegisterOptional(stubChecker{name: "basket_api", status: tt.optional})

			h := NewHealthHandler(checker)
			router := gin.New()
			router.GET("/health", h.Health)
			router.GET("/ready", h.Ready)
			router.GET("/live", h.Live)

			w := serve(router, http.MethodGet, "/health", nil)
			require.Equal(t, tt.expectedStatus, w.Code)
			var resp health.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedHealth, resp.Status)
			assert.Len(t, resp.Checks, 2)

			w = serve(router, http.MethodGet, "/ready", nil)
			assert.Equal(t, tt.expectedReady, w.Code)

			w = serve(router, http.MethodGet, "/live", nil)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
