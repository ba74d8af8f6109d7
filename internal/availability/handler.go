package availability

import (
	"net/http"

	apperrors "vizit/pkg/errors"
	httputil "vizit/pkg/http"
	"vizit/pkg/logger"
	"vizit/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Resolve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Missing identity")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Resolve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	report, err := h.service.Resolve(
		r.Context(),
		actor,
		query.Get("property_id"),
		query.Get("date"),
		query.Get("exclude_booking_id"),
	)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Resolve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, report); err != nil {
		h.log.Error("failed to write success response", "handler", "Resolve", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Resolve)
}
