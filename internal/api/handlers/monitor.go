package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	apperrors "github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
	"github.com/ovn-tools/egresswatch/internal/services"
)

type MonitorHandler struct {
	service         *services.MonitorService
	defaultDuration time.Duration
	defaultInterval time.Duration
	logger          *logger.Logger
}

func NewMonitorHandler(service *services.MonitorService, defaultDuration, defaultInterval time.Duration, log *logger.Logger) *MonitorHandler {
	return &MonitorHandler{
		service:         service,
		defaultDuration: defaultDuration,
		defaultInterval: defaultInterval,
		logger:          log,
	}
}

// Snapshot captures a single rule snapshot of one node
func (h *MonitorHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	if node == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "node name is required")
		return
	}

	snap, err := h.service.TakeSnapshot(r.Context(), node)
	if err != nil {
		utils.WriteErrorMessage(w, http.StatusBadGateway, "SOURCE_UNAVAILABLE", err.Error())
		return
	}
	utils.WriteSuccess(w, http.StatusOK, snap)
}

// Monitor runs a bounded monitoring session against one node. The
// request blocks for the session duration; clients should set their
// timeouts accordingly. Duration and interval accept Go duration
// strings via query parameters.
func (h *MonitorHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	if node == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "node name is required")
		return
	}

	duration := h.defaultDuration
	if raw := r.URL.Query().Get("duration"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "invalid duration: "+raw)
			return
		}
		duration = parsed
	}
	interval := h.defaultInterval
	if raw := r.URL.Query().Get("interval"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "invalid interval: "+raw)
			return
		}
		interval = parsed
	}
	if interval <= 0 || duration < interval {
		utils.WriteError(w, apperrors.ValidationError("duration must cover at least one interval",
			map[string]string{"duration": duration.String(), "interval": interval.String()}))
		return
	}

	result := h.service.Monitor(r.Context(), node, duration, interval)
	status := http.StatusOK
	if result.Status == analysis.StatusError {
		status = http.StatusBadGateway
	}
	utils.WriteJSON(w, status, result)
}
