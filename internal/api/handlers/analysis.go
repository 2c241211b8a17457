package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ovn-tools/egresswatch/internal/domain/analysis"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
	"github.com/ovn-tools/egresswatch/internal/services"
)

type AnalysisHandler struct {
	service *services.AnalysisService
	logger  *logger.Logger
}

func NewAnalysisHandler(service *services.AnalysisService, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: log}
}

// Analyze runs a full rule analysis for one node
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	if node == "" {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST", "node name is required")
		return
	}

	result := h.service.AnalyzeNode(r.Context(), node)
	status := http.StatusOK
	if result.Status == analysis.StatusError {
		status = http.StatusBadGateway
	}
	utils.WriteJSON(w, status, result)
}

// Compare analyzes multiple nodes and diffs their rule state. Nodes
// come from the comma-separated nodes query parameter.
func (h *AnalysisHandler) Compare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("nodes")
	var nodes []string
	for _, n := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			nodes = append(nodes, trimmed)
		}
	}
	if len(nodes) < 2 {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "BAD_REQUEST",
			"at least two nodes are required, e.g. ?nodes=node-a,node-b")
		return
	}

	result := h.service.CompareNodes(r.Context(), nodes)
	status := http.StatusOK
	if result.Status == analysis.StatusError {
		status = http.StatusBadGateway
	}
	utils.WriteJSON(w, status, result)
}
