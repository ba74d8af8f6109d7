package analytics

import (
	"net/http"

	apperrors "vizit/pkg/errors"
	httputil "vizit/pkg/http"
	"vizit/pkg/logger"
	"vizit/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type AnalyticsHandler struct {
	service AnalyticsService
	log     *logger.Logger
}

func NewAnalyticsHandler(service AnalyticsService, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log,
	}
}

func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing identity")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Report", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	report, err := h.service.Report(r.Context(), actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Report", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Report", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/analytics", h.Report)
}
