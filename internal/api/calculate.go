package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spcalc/spcalc/pkg/spcode"
	"github.com/spcalc/spcalc/pkg/surface"
)

type calculateRequest struct {
	Modules []spcode.Entry `json:"modules"`
	// CreditCap optionally overrides the configured cap for this request.
	CreditCap float64 `json:"credit_cap,omitempty"`
}

type validationResponse struct {
	Error  string              `json:"error"`
	Fields []spcode.FieldError `json:"fields"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.metrics.observeCalculation("rejected", start)
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.metrics.observeCalculation("rejected", start)
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	optimizer := h.optimizer
	if req.CreditCap != 0 {
		cfg := optimizer.Config()
		cfg.CreditCap = req.CreditCap
		if err := cfg.Validate(); err != nil {
			h.metrics.observeCalculation("rejected", start)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		optimizer = spcode.New(cfg)
	}

	entries := req.Modules
	if h.catalog != nil {
		entries = make([]spcode.Entry, len(req.Modules))
		for i, e := range req.Modules {
			entries[i], _ = h.catalog.Complete(e)
		}
	}

	report, err := optimizer.Calculate(entries)
	if err != nil {
		h.metrics.observeCalculation("rejected", start)
		var verr *spcode.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, validationResponse{Error: verr.Error(), Fields: verr.Fields})
		case errors.Is(err, spcode.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("calculation failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "calculation failed")
		}
		return
	}

	view := surface.BuildView(report, h.precision)
	view.ID = uuid.New().String()

	h.metrics.observeCalculation("ok", start)
	for _, sr := range report.Semesters {
		h.metrics.Options.Observe(float64(len(sr.Results)))
	}
	h.logger.Debug("calculated",
		zap.String("id", view.ID),
		zap.Int("entries", len(entries)),
		zap.Int("semesters", len(report.Semesters)),
	)

	writeJSON(w, http.StatusOK, view)
}
