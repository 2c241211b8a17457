package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
	"github.com/ovn-tools/egresswatch/internal/runner"
	"github.com/ovn-tools/egresswatch/internal/services"
)

type PerfTestHandler struct {
	service *services.RunnerService
	logger  *logger.Logger
}

func NewPerfTestHandler(service *services.RunnerService, log *logger.Logger) *PerfTestHandler {
	return &PerfTestHandler{service: service, logger: log}
}

// Run executes a connectivity stress test from a JSON config body. The
// request blocks until the suite finishes.
func (h *PerfTestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var cfg runner.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := cfg.Validate(); err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	report, err := h.service.RunTest(r.Context(), cfg)
	if err != nil {
		writeAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, report)
}
