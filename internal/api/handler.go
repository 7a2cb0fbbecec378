// Package api implements the spcalc REST API: SP-coding calculations and
// module catalog search.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/spcalc/spcalc/pkg/catalog"
	"github.com/spcalc/spcalc/pkg/spcode"
)

// Catalog is the read side of the module catalog the API needs.
type Catalog interface {
	Search(query string, limit int) []catalog.Module
	Lookup(code string) (catalog.Module, bool)
	Complete(e spcode.Entry) (spcode.Entry, bool)
	Len() int
}

// Options configures a Handler. Zero values are replaced with defaults.
type Options struct {
	Precision    int
	MaxBodyBytes int64
	Logger       *zap.Logger
	Metrics      *Metrics
	Cache        *SearchCache
	// Health, when set, is consulted by /healthz (e.g. a database ping).
	Health func(ctx context.Context) error
}

// Handler is the top-level API handler.
type Handler struct {
	optimizer    *spcode.Optimizer
	catalog      Catalog
	precision    int
	maxBodyBytes int64
	logger       *zap.Logger
	metrics      *Metrics
	cache        *SearchCache
	health       func(ctx context.Context) error
}

// NewHandler creates a new API handler. catalog may be nil, in which case
// the module endpoints report 503 and calculations skip entry completion.
func NewHandler(optimizer *spcode.Optimizer, cat Catalog, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Cache == nil {
		opts.Cache = NewSearchCache(0)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	return &Handler{
		optimizer:    optimizer,
		catalog:      cat,
		precision:    opts.Precision,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		cache:        opts.Cache,
		health:       opts.Health,
	}
}

// RegisterRoutes registers the /api/v1 routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/calculate", h.handleCalculate)
	mux.HandleFunc("GET /api/v1/modules", h.handleSearchModules)
	mux.HandleFunc("GET /api/v1/modules/{code}", h.handleGetModule)
}

// RegisterHealth registers the health check. It is kept apart from the API
// routes so it can be served outside auth and rate limiting.
func (h *Handler) RegisterHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "unhealthy")
			return
		}
	}
	modules := 0
	if h.catalog != nil {
		modules = h.catalog.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "catalog_modules": modules})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
