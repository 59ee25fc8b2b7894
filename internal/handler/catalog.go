package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"polyterminal/internal/repository"
	"polyterminal/internal/sync"
)

type CatalogHandler struct {
	Sync   *sync.Service
	Store  repository.CatalogRepository
	Logger *zap.Logger
}

func (h *CatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api/catalog")
	group.POST("/sync", h.runSync)
	group.POST("/sync/events/:id", h.syncEventDetail)
	group.POST("/sync/markets/:id", h.syncMarketDetail)
	group.POST("/sync/tags/:id", h.syncTagDetail)
	group.POST("/sync/series/:id", h.syncSeriesDetail)
	group.GET("/sync-state", h.listSyncState)
	group.GET("/stats", h.stats)
	group.GET("/events", h.listEvents)
	group.GET("/events/:id", h.getEvent)
	group.GET("/markets", h.listMarkets)
	group.GET("/markets/:id", h.getMarket)
	group.GET("/tags", h.listTags)
	group.GET("/tags/:id/related-tags", h.listRelatedTags)
	group.GET("/series", h.listSeries)
	group.GET("/series/:id", h.getSeries)
	group.GET("/comments", h.listComments)
}

// Orderable columns per listing. Anything else falls back to the default
// ordering instead of reaching the SQL layer.
var (
	eventOrderColumns = map[string]string{
		"volume":              "volume",
		"liquidity":           "liquidity",
		"start_date":          "start_date",
		"end_date":            "end_date",
		"title":               "title",
		"external_updated_at": "external_updated_at",
	}
	marketOrderColumns = map[string]string{
		"volume":              "volume",
		"liquidity":           "liquidity",
		"best_bid":            "best_bid",
		"best_ask":            "best_ask",
		"last_trade_price":    "last_trade_price",
		"end_date":            "end_date",
		"external_updated_at": "external_updated_at",
	}
	seriesOrderColumns = map[string]string{
		"volume":              "volume",
		"liquidity":           "liquidity",
		"title":               "title",
		"start_date":          "start_date",
		"external_updated_at": "external_updated_at",
	}
)

// runSync triggers a pass synchronously and returns its counters. scope
// selects the pass: tags, events, markets, series, relationships, all, or
// daily.
func (h *CatalogHandler) runSync(c *gin.Context) {
	if h.Sync == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	opts := sync.Options{
		Limit:         intQuery(c, "limit", 0),
		MaxPages:      intQuery(c, "max_pages", 0),
		Resume:        boolQueryDefault(c, "resume", true),
		TagID:         intQueryPtr(c, "tag_id"),
		Closed:        parseClosed(c.Query("closed")),
		IncludeChat:   boolQueryDefault(c, "include_chat", true),
		Tags:          boolQueryDefault(c, "tags", true),
		Series:        boolQueryDefault(c, "series", true),
		Relationships: boolQueryDefault(c, "relationships", false),
		Comments:      boolQueryDefault(c, "comments", false),
		Enrich:        boolQueryDefault(c, "enrich", false),
	}

	ctx := c.Request.Context()
	scope := strings.ToLower(strings.TrimSpace(c.Query("scope")))
	var (
		payload any
		err     error
	)
	switch scope {
	case "", "all":
		payload, err = h.Sync.RunAll(ctx, opts)
	case "daily":
		payload, err = h.Sync.DailyScan(ctx, opts)
	case "tags":
		payload, err = h.Sync.SyncTags(ctx, opts)
	case "events":
		payload, err = h.Sync.SyncEvents(ctx, opts)
	case "markets":
		payload, err = h.Sync.SyncMarkets(ctx, opts)
	case "series":
		payload, err = h.Sync.SyncSeries(ctx, opts)
	case "relationships":
		payload, err = h.Sync.SyncTagRelationships(ctx, opts)
	case "comments":
		payload, err = h.Sync.SyncComments(ctx, opts)
	default:
		Error(c, http.StatusBadRequest, "unsupported scope: "+scope, nil)
		return
	}
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("catalog sync failed", zap.String("scope", scope), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, payload, nil)
}

// syncEventDetail refetches one event by id. 404 when the remote side no
// longer knows the id; the stored row is left alone either way.
func (h *CatalogHandler) syncEventDetail(c *gin.Context) {
	if h.Sync == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	row, err := h.Sync.SyncEventDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if row == nil {
		Error(c, http.StatusNotFound, "event not found upstream", nil)
		return
	}
	Ok(c, row, nil)
}

func (h *CatalogHandler) syncMarketDetail(c *gin.Context) {
	if h.Sync == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	row, err := h.Sync.SyncMarketDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if row == nil {
		Error(c, http.StatusNotFound, "market not found upstream", nil)
		return
	}
	Ok(c, row, nil)
}

func (h *CatalogHandler) syncTagDetail(c *gin.Context) {
	if h.Sync == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	row, err := h.Sync.SyncTagDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if row == nil {
		Error(c, http.StatusNotFound, "tag not found upstream", nil)
		return
	}
	Ok(c, row, nil)
}

func (h *CatalogHandler) syncSeriesDetail(c *gin.Context) {
	if h.Sync == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	row, err := h.Sync.SyncSeriesDetail(c.Request.Context(), c.Param("id"), boolQueryDefault(c, "include_chat", true))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if row == nil {
		Error(c, http.StatusNotFound, "series not found upstream", nil)
		return
	}
	Ok(c, row, nil)
}

func (h *CatalogHandler) listSyncState(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	states, err := h.Store.ListSyncStates(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}

func (h *CatalogHandler) stats(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	counts, err := h.Store.TableCounts(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, counts, nil)
}

func (h *CatalogHandler) listEvents(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListEventsParams{
		Limit:   intQuery(c, "limit", 0),
		Offset:  intQuery(c, "offset", 0),
		OrderBy: parseOrder(c.Query("order_by"), eventOrderColumns),
		Asc:     boolQueryPtr(c, "asc"),
		Active:  boolQueryPtr(c, "active"),
		Closed:  parseClosed(c.Query("closed")),
		TagID:   c.Query("tag_id"),
		Slug:    c.Query("slug"),
	}
	ctx := c.Request.Context()
	items, err := h.Store.ListEvents(ctx, params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Store.CountEvents(ctx, params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}

func (h *CatalogHandler) getEvent(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	item, err := h.Store.GetEventByID(ctx, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "event not found", nil)
		return
	}
	tags, err := h.Store.ListTagsByEventIDs(ctx, []string{id})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	markets, err := h.Store.ListMarkets(ctx, repository.ListMarketsParams{EventID: id, Limit: 500})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"event":   item,
		"tags":    tags[id],
		"markets": markets,
	}, nil)
}

func (h *CatalogHandler) listMarkets(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	params := repository.ListMarketsParams{
		Limit:   intQuery(c, "limit", 0),
		Offset:  intQuery(c, "offset", 0),
		OrderBy: parseOrder(c.Query("order_by"), marketOrderColumns),
		Asc:     boolQueryPtr(c, "asc"),
		Active:  boolQueryPtr(c, "active"),
		Closed:  parseClosed(c.Query("closed")),
		EventID: c.Query("event_id"),
		Slug:    c.Query("slug"),
	}
	ctx := c.Request.Context()
	items, err := h.Store.ListMarkets(ctx, params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Store.CountMarkets(ctx, params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"total": total})
}

func (h *CatalogHandler) getMarket(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	item, err := h.Store.GetMarketByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "market not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *CatalogHandler) listTags(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Store.ListTags(c.Request.Context(), repository.ListTagsParams{
		Limit:  intQuery(c, "limit", 0),
		Offset: intQuery(c, "offset", 0),
		Slug:   c.Query("slug"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *CatalogHandler) listRelatedTags(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Store.ListRelatedTags(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *CatalogHandler) listSeries(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Store.ListSeries(c.Request.Context(), repository.ListSeriesParams{
		Limit:   intQuery(c, "limit", 0),
		Offset:  intQuery(c, "offset", 0),
		OrderBy: parseOrder(c.Query("order_by"), seriesOrderColumns),
		Asc:     boolQueryPtr(c, "asc"),
		Closed:  parseClosed(c.Query("closed")),
		Slug:    c.Query("slug"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *CatalogHandler) getSeries(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	item, err := h.Store.GetSeriesByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "series not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *CatalogHandler) listComments(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Store.ListComments(c.Request.Context(), repository.ListCommentsParams{
		Limit:            intQuery(c, "limit", 0),
		Offset:           intQuery(c, "offset", 0),
		ParentEntityType: c.Query("parent_entity_type"),
		ParentEntityID:   c.Query("parent_entity_id"),
		UserAddress:      c.Query("user_address"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func intQueryPtr(c *gin.Context, key string) *int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return &i
		}
	}
	return nil
}

func boolQueryDefault(c *gin.Context, key string, def bool) bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

// parseOrder maps a requested sort key to a known column. Unknown keys
// (including anything that is not a bare column name) yield "", which keeps
// the listing on its default ordering.
func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func parseClosed(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "open":
		v := false
		return &v
	case "closed":
		v := true
		return &v
	default:
		return nil
	}
}
