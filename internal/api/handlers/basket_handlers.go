package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/basket"
	"github.com/basket-service/basket_service/internal/infrastructure/cache"
)

// maxSelectWait bounds how long a select call blocks when wait=true
const maxSelectWait = 20 * time.Second

// BasketHandlers serves basket listings, projections and session views
type BasketHandlers struct {
	service     *basket.Service
	invalidator *cache.CacheInvalidator
	logger      *zap.Logger
}

// NewBasketHandlers creates basket handlers. invalidator may be nil, in
// which case the cache endpoints report 503.
func NewBasketHandlers(service *basket.Service, invalidator *cache.CacheInvalidator, logger *zap.Logger) *BasketHandlers {
	return &BasketHandlers{
		service:     service,
		invalidator: invalidator,
		logger:      logger,
	}
}

// ListBaskets handles GET /api/v1/baskets
func (h *BasketHandlers) ListBaskets(c *gin.Context) {
	items := h.service.List()
	c.JSON(http.StatusOK, gin.H{
		"baskets": items,
		"count":   len(items),
	})
}

// GetBasket handles GET /api/v1/baskets/:id
func (h *BasketHandlers) GetBasket(c *gin.Context) {
	b, err := h.service.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetProjection handles GET /api/v1/baskets/:id/projection
func (h *BasketHandlers) GetProjection(c *gin.Context) {
	req, ok := h.viewRequest(c)
	if !ok {
		return
	}

	view, err := h.service.Project(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportProjection handles GET /api/v1/baskets/:id/projection/export and
// streams the yearly table as a CSV attachment.
func (h *BasketHandlers) ExportProjection(c *gin.Context) {
	req, ok := h.viewRequest(c)
	if !ok {
		return
	}

	view, err := h.service.Project(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := basket.ExportCSV(&buf, view.Basket.Name, view.Projection); err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := basket.ExportFilename(view.Basket.ID, view.Horizon)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GetSchedule handles GET /api/v1/baskets/:id/sip?monthly=&years=
func (h *BasketHandlers) GetSchedule(c *gin.Context) {
	horizon, err := parseHorizon(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("monthly") == "" {
		respondBadRequest(c, "monthly is required", nil)
		return
	}
	monthly, err := parseAmount(c, "monthly", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.Schedule(c.Request.Context(), c.Param("id"), horizon, monthly)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compare handles GET /api/v1/compare?ids=a,b
func (h *BasketHandlers) Compare(c *gin.Context) {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		respondBadRequest(c, "ids must list at least one basket", nil)
		return
	}

	horizon, err := parseHorizon(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := parseAmount(c, "amount", h.service.Config().DefaultAmount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	comparison, err := h.service.Compare(c.Request.Context(), ids, horizon, amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// CreateSession handles POST /api/v1/sessions
func (h *BasketHandlers) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, entities.SessionResponse{
		SessionID: h.service.CreateSession(),
	})
}

// SelectBasket handles POST /api/v1/sessions/:session/baskets/:id/select.
// The fetch runs in the background; with wait=true the call blocks until it
// resolves and returns the rendered view instead of the acknowledgement.
func (h *BasketHandlers) SelectBasket(c *gin.Context) {
	horizon, err := parseHorizon(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if horizon == 0 {
		horizon = h.service.Config().DefaultHorizon
	}

	session, identity := c.Param("session"), c.Param("id")
	dispatch, err := h.service.Select(c.Request.Context(), session, identity, horizon)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, entities.SelectResponse{
			SessionID: session,
			BasketID:  identity,
			Horizon:   horizon,
			Token:     dispatch.Token,
			Status:    "dispatched",
		})
		return
	}

	timer := time.NewTimer(maxSelectWait)
	defer timer.Stop()
	select {
	case <-dispatch.Done():
	case <-timer.C:
	case <-c.Request.Context().Done():
		return
	}
	h.renderSessionView(c, horizon)
}

// GetSessionView handles GET /api/v1/sessions/:session/baskets/:id
func (h *BasketHandlers) GetSessionView(c *gin.Context) {
	horizon, err := parseHorizon(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.renderSessionView(c, horizon)
}

func (h *BasketHandlers) renderSessionView(c *gin.Context, horizon entities.Horizon) {
	amount, err := parseAmount(c, "amount", h.service.Config().DefaultAmount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := h.service.View(c.Request.Context(), basket.ViewRequest{
		Identity: c.Param("id"),
		Horizon:  horizon,
		Amount:   amount,
		Mode:     entities.SeriesMode(c.Query("mode")),
		Session:  c.Param("session"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// InvalidateBasketCache handles DELETE /api/v1/admin/cache/baskets/:id
func (h *BasketHandlers) InvalidateBasketCache(c *gin.Context) {
	if h.invalidator == nil {
		c.JSON(http.StatusServiceUnavailable, entities.ErrorResponse{Code: "CACHE_DISABLED", Message: "Payload cache is not configured"})
		return
	}

	id := c.Param("id")
	if _, err := h.service.Get(id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	removed, err := h.invalidator.InvalidateBasket(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"basketId": id, "removed": removed})
}

// InvalidateAllCache handles DELETE /api/v1/admin/cache
func (h *BasketHandlers) InvalidateAllCache(c *gin.Context) {
	if h.invalidator == nil {
		c.JSON(http.StatusServiceUnavailable, entities.ErrorResponse{Code: "CACHE_DISABLED", Message: "Payload cache is not configured"})
		return
	}

	removed, err := h.invalidator.InvalidateAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *BasketHandlers) viewRequest(c *gin.Context) (basket.ViewRequest, bool) {
	horizon, err := parseHorizon(c)
	if err != nil {
		respondError(c, h.logger, err)
		return basket.ViewRequest{}, false
	}
	amount, err := parseAmount(c, "amount", h.service.Config().DefaultAmount)
	if err != nil {
		respondError(c, h.logger, err)
		return basket.ViewRequest{}, false
	}
	return basket.ViewRequest{
		Identity: c.Param("id"),
		Horizon:  horizon,
		Amount:   amount,
		Mode:     entities.SeriesMode(c.Query("mode")),
	}, true
}
