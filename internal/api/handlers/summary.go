package handlers

import (
	"net/http"
	"strconv"

	"github.com/ovn-tools/egresswatch/internal/domain/metric"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
)

type SummaryHandler struct {
	store  metric.Repository
	logger *logger.Logger
}

func NewSummaryHandler(store metric.Repository, log *logger.Logger) *SummaryHandler {
	return &SummaryHandler{store: store, logger: log}
}

// Summary aggregates the metric tables over the past hours query
// parameter, defaulting to 24.
func (h *SummaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours <= 0 {
		hours = 24
	}

	summary, err := h.store.Summary(r.Context(), hours)
	if err != nil {
		writeAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, summary)
}
