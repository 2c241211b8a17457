package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
	"github.com/ovn-tools/egresswatch/internal/services"
)

type TrendHandler struct {
	service *services.TrendService
	logger  *logger.Logger
}

func NewTrendHandler(service *services.TrendService, log *logger.Logger) *TrendHandler {
	return &TrendHandler{service: service, logger: log}
}

// Analyze computes and stores a trend analysis for one metric type
func (h *TrendHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	metricType := chi.URLParam(r, "metricType")

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	result, err := h.service.AnalyzeTrend(r.Context(), metricType, days)
	if err != nil && result == nil {
		writeAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// Recent lists stored trend analyses for one metric type, newest first
func (h *TrendHandler) Recent(w http.ResponseWriter, r *http.Request) {
	metricType := chi.URLParam(r, "metricType")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	analyses, err := h.service.RecentAnalyses(r.Context(), metricType, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, analyses)
}

func writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteErrorMessage(w, http.StatusInternalServerError,
		apperrors.ErrCodeInternal, err.Error())
}
