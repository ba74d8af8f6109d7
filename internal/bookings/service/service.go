package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	bookingserrors "vizit/internal/bookings/errors"
	"vizit/internal/bookings/repository"
	"vizit/internal/bookings/validator"
	"vizit/pkg/client"
	"vizit/pkg/config"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"
	"vizit/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, booking *model.Booking) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	UpdateSlot(ctx context.Context, actor model.Actor, id string, req *model.SlotChangeRequest) (*model.Booking, error)
	TransitionStatus(ctx context.Context, actor model.Actor, id string, req *model.StatusChangeRequest) (*model.Booking, error)
	ProposeReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleProposalRequest) (*model.Booking, error)
	ResolveReschedule(ctx context.Context, actor model.Actor, id string, req *model.RescheduleResolutionRequest) (*model.Booking, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	claims     repository.SlotClaimRepository
	validator  *validator.BookingValidator
	properties client.PropertyLookup
	events     EventPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	claims repository.SlotClaimRepository,
	validator *validator.BookingValidator,
	properties client.PropertyLookup,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		claims:     claims,
		validator:  validator,
		properties: properties,
		events:     events,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actor model.Actor, booking *model.Booking) error {
	if !actor.IsRequester() {
		return apperrors.Forbidden("Only requesters may create bookings")
	}

	s.applyDefaults(actor, booking)

	if err := s.validate(booking); err != nil {
		return err
	}
	if err := s.checkSchedulable(booking.Date, booking.Slot); err != nil {
		return err
	}

	s.denormalizeProperty(ctx, booking)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		active, err := s.repo.CountActiveByRequesterAndProperty(sessCtx, booking.RequesterID, booking.PropertyID)
		if err != nil {
			return s.storeError("Failed to check existing bookings", err)
		}
		if active > 0 {
			return apperrors.Conflict(
				"Requester already has an active booking for this property",
				apperrors.ReasonAlreadyHasActiveBooking,
			)
		}

		// The unique partial index on (requester_id, property_id) backs the
		// count check above under concurrent creates.
		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrActiveBookingExists) {
				return apperrors.Conflict(
					"Requester already has an active booking for this property",
					apperrors.ReasonAlreadyHasActiveBooking,
				)
			}
			return s.storeError("Failed to create booking", err)
		}

		if err := s.claims.Acquire(sessCtx, model.NewSlotClaim(booking)); err != nil {
			if errors.Is(err, bookingserrors.ErrClaimHeld) {
				return apperrors.Conflict("This visit slot is already booked", apperrors.ReasonSlotTaken)
			}
			return s.storeError("Failed to claim visit slot", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"property_id", booking.PropertyID,
			"requester_id", booking.RequesterID,
			"error", err,
		)
		return err
	}

	s.publish(ctx, EventBookingCreated, booking, nil)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"requester_id", booking.RequesterID,
		"date", booking.Date,
		"slot", booking.Slot,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdministrator() && !actor.Owns(booking) {
		return nil, apperrors.Forbidden("You may only view your own bookings")
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, actor model.Actor, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter == nil {
		filter = &model.BookingFilter{}
	}

	// Requesters see only their own bookings regardless of the filter.
	if !actor.IsAdministrator() {
		filter.RequesterID = actor.ID
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status filter: %s", filter.Status))
	}
	filter.City = sanitizer.SanitizeCityOrLabel(filter.City)
	filter.Query = sanitizer.TrimAndNormalize(filter.Query)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByFilter(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = s.storeError("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.List(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = s.storeError("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// applyDefaults resets the server-owned fields. A requester always books
// for themself, whatever requester_id the payload carried.
func (s *bookingService) applyDefaults(actor model.Actor, b *model.Booking) {
	b.ID = ""
	b.RequesterID = actor.ID
	b.Status = model.StatusPending
	b.CreatedByRole = actor.Role
	b.RescheduleProposal = nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// checkSchedulable rejects dates in the past and dates beyond the booking
// horizon. The comparison is by calendar day in UTC, matching the
// day-granular slot catalog.
func (s *bookingService) checkSchedulable(date, slot string) error {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid visit date: %s", date))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return apperrors.Validation("Visit date cannot be in the past", map[string]any{
			"date": date,
			"slot": slot,
		})
	}

	if s.cfg.BookingHorizonDays > 0 {
		horizon := today.AddDate(0, 0, s.cfg.BookingHorizonDays)
		if day.After(horizon) {
			return apperrors.Validation("Visit date is beyond the booking horizon", map[string]any{
				"date":         date,
				"horizon_days": s.cfg.BookingHorizonDays,
			})
		}
	}

	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, s.storeError("Failed to retrieve booking", err)
	}

	return booking, nil
}

// denormalizeProperty copies display fields from the property catalog onto
// the booking. Lookup failures degrade to an untitled booking rather than
// rejecting the request.
func (s *bookingService) denormalizeProperty(ctx context.Context, b *model.Booking) {
	if s.properties == nil {
		return
	}

	property, err := s.properties.GetProperty(ctx, b.PropertyID)
	if err != nil {
		s.cfg.Log.Warn("Property lookup failed, storing booking without display fields",
			"property_id", b.PropertyID,
			"error", err,
		)
		return
	}

	b.PropertyTitle = property.Title
	// Stored in canonical form so the city list filter matches exactly.
	b.PropertyCity = sanitizer.SanitizeCityOrLabel(property.City)
}

// storeError maps infrastructure failures to a retryable unavailability
// error and everything else to an internal error. AppErrors produced inside
// a transaction pass through untouched.
func (s *bookingService) storeError(message string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return apperrors.Unavailable("booking store", err)
	}
	return apperrors.Internal(message, err)
}
