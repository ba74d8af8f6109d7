package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/logger"
	"vizit/pkg/middleware"
	"vizit/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	createFunc     func(ctx context.Context, actor model.Actor, booking *model.Booking) error
	getByIDFunc    func(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	listFunc       func(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	transitionFunc func(ctx context.Context, actor model.Actor, id string, req *model.StatusChangeRequest) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, booking)
	}
	booking.ID = "booking-1"
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, actor, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor, filter, limit, offset)
	}
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) UpdateSlot(ctx context.Context, actor model.Actor, id string, req *model.SlotChangeRequest) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) TransitionStatus(ctx context.Context, actor model.Actor, id string, req *model.StatusChangeRequest) (*model.Booking, error) {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, actor, id, req)
	}
	return nil, nil
}

func (m *mockBookingService) ProposeReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleProposalRequest) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) ResolveReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleResolutionRequest) (*model.Booking, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

// newTestRouter wires the handler behind the identity middleware, the same
// shape the application uses.
func newTestRouter(svc *mockBookingService) http.Handler {
	log := testLogger()
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return middleware.Identity(log)(router)
}

func identified(req *http.Request, userID, role string) *http.Request {
	req.Header.Set(middleware.HeaderUserID, userID)
	req.Header.Set(middleware.HeaderUserRole, role)
	return req
}

func TestCreate_PassesActorToService(t *testing.T) {
	var capturedActor model.Actor
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, actor model.Actor, booking *model.Booking) error {
			capturedActor = actor
			booking.ID = "booking-1"
			return nil
		},
	}
	router := newTestRouter(svc)

	body := `{"property_id":"prop-1","date":"2026-09-15","slot":"09:00-10:00"}`
	req := identified(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)), "user-1", "requester")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedActor.ID != "user-1" || capturedActor.Role != model.RoleRequester {
		t.Errorf("unexpected actor %+v", capturedActor)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := identified(httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json")), "user-1", "requester")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_MissingIdentityRejected(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestGetByID_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "x"), http.StatusNotFound, apperrors.CodeNotFound},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden, apperrors.CodeForbidden},
		{"conflict", apperrors.Conflict("taken", apperrors.ReasonSlotTaken), http.StatusConflict, apperrors.CodeConflict},
		{"invalid transition", apperrors.InvalidTransition("pending", "completed"), http.StatusConflict, apperrors.CodeInvalidTransition},
		{"unavailable", apperrors.Unavailable("booking store", nil), http.StatusServiceUnavailable, apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				getByIDFunc: func(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
					return nil, tt.serviceErr
				},
			}
			router := newTestRouter(svc)

			req := identified(httptest.NewRequest(http.MethodGet, "/api/v1/bookings/booking-1", nil), "user-1", "requester")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestList_FilterParsing(t *testing.T) {
	var capturedFilter *model.BookingFilter
	svc := &mockBookingService{
		listFunc: func(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
			capturedFilter = filter
			return []*model.Booking{}, 0, nil
		},
	}
	router := newTestRouter(svc)

	req := identified(httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=approved&property_id=prop-1&city=Lisbon&q=loft", nil), "admin-1", "admin")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedFilter.Status != model.StatusApproved {
		t.Errorf("expected status filter approved, got %s", capturedFilter.Status)
	}
	if capturedFilter.PropertyID != "prop-1" || capturedFilter.City != "Lisbon" || capturedFilter.Query != "loft" {
		t.Errorf("unexpected filter %+v", capturedFilter)
	}
}

func TestTransitionStatus_RouteWiring(t *testing.T) {
	var capturedID string
	var capturedReq *model.StatusChangeRequest
	svc := &mockBookingService{
		transitionFunc: func(ctx context.Context, actor model.Actor, id string, req *model.StatusChangeRequest) (*model.Booking, error) {
			capturedID = id
			capturedReq = req
			return &model.Booking{ID: id, Status: req.Status}, nil
		},
	}
	router := newTestRouter(svc)

	req := identified(httptest.NewRequest(http.MethodPut, "/api/v1/bookings/booking-1/status", strings.NewReader(`{"status":"approved"}`)), "admin-1", "admin")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedID != "booking-1" {
		t.Errorf("expected id booking-1, got %q", capturedID)
	}
	if capturedReq == nil || capturedReq.Status != model.StatusApproved {
		t.Errorf("unexpected request %+v", capturedReq)
	}
}
