package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/ovn-tools/egresswatch/internal/pkg/errors"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/pkg/utils"
	"github.com/ovn-tools/egresswatch/internal/services"
	"github.com/ovn-tools/egresswatch/internal/testutil"
)

func newMonitorHandler() *MonitorHandler {
	log := logger.Nop()
	service := services.NewMonitorService(testutil.NewMockRuleSource(), log)
	return NewMonitorHandler(service, 5*time.Minute, 30*time.Second, log)
}

func monitorRequest(node, query string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/nodes/"+node+"/monitor"+query, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("node", node)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestMonitorHandler_RejectsInvalidWindow(t *testing.T) {
	handler := newMonitorHandler()

	tests := []struct {
		name         string
		query        string
		expectedCode string
	}{
		{
			name:         "duration shorter than interval",
			query:        "?duration=10s&interval=30s",
			expectedCode: apperrors.ErrCodeValidation,
		},
		{
			name:         "zero interval",
			query:        "?duration=1m&interval=0s",
			expectedCode: apperrors.ErrCodeValidation,
		},
		{
			name:         "unparseable duration",
			query:        "?duration=banana",
			expectedCode: apperrors.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			handler.Monitor(rr, monitorRequest("node1", tt.query))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d, body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}

			var response utils.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Error.Code != tt.expectedCode {
				t.Errorf("error code = %q, want %q", response.Error.Code, tt.expectedCode)
			}
		})
	}
}
