package api

import (
	"net/http"
	"strconv"

	"github.com/spcalc/spcalc/pkg/catalog"
)

const maxSearchLimit = 500

func (h *Handler) handleSearchModules(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "module catalog not loaded")
		return
	}

	query := r.URL.Query().Get("q")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	h.metrics.Searches.Inc()
	results, ok := h.cache.Get(query, limit)
	if ok {
		h.metrics.SearchCacheHits.Inc()
	} else {
		results = h.catalog.Search(query, limit)
		if results == nil {
			results = []catalog.Module{}
		}
		h.cache.Put(query, limit, results)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"modules": results,
	})
}

func (h *Handler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "module catalog not loaded")
		return
	}

	code := r.PathValue("code")
	m, ok := h.catalog.Lookup(code)
	if !ok {
		writeError(w, http.StatusNotFound, "module not found: "+code)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
