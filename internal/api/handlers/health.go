package handlers

import (
	"database/sql"
	"net/http"

	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness, including database connectivity
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			utils.WriteErrorMessage(w, http.StatusServiceUnavailable,
				"NOT_READY", "database unavailable")
			return
		}
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
