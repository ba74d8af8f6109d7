package availability

import (
	"context"
	"errors"
	"fmt"
	"time"
	bookingserrors "vizit/internal/bookings/errors"
	"vizit/internal/bookings/repository"
	"vizit/internal/catalog"
	"vizit/pkg/config"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type AvailabilityService interface {
	Resolve(ctx context.Context, actor model.Actor, propertyID, date, excludeBookingID string) ([]model.SlotAvailability, error)
}

type availabilityService struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewAvailabilityService(repo repository.BookingRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo: repo,
		cfg:  cfg,
	}
}

// Resolve reports every catalog slot of one property day from the caller's
// point of view. Slots held by the caller's own bookings read as
// held-by-requester; excludeBookingID removes one booking from the picture
// so a caller can see where their existing visit could move.
func (s *availabilityService) Resolve(ctx context.Context, actor model.Actor, propertyID, date, excludeBookingID string) ([]model.SlotAvailability, error) {
	if propertyID == "" {
		return nil, apperrors.InvalidInput("property_id is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid date: %s, expected %s", date, model.DateLayout))
	}

	active, err := s.repo.FindActiveByPropertyAndDate(ctx, propertyID, date, excludeBookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid exclude_booking_id: %s", excludeBookingID))
		}
		if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
			return nil, apperrors.Unavailable("booking store", err)
		}
		s.cfg.Log.Error("Failed to resolve availability",
			"property_id", propertyID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve availability", err)
	}

	occupied := make(map[string]model.Occupancy, len(active))
	for _, b := range active {
		occupancy := model.OccupancyHeldByOther
		if actor.Owns(b) {
			occupancy = model.OccupancyHeldByRequester
		}
		occupied[b.Slot] = occupancy
	}

	report := make([]model.SlotAvailability, 0, len(catalog.Slots))
	for _, slot := range catalog.Slots {
		occupancy, held := occupied[slot]
		if !held {
			occupancy = model.OccupancyFree
		}
		report = append(report, model.SlotAvailability{
			Slot:      slot,
			Occupancy: occupancy,
		})
	}

	return report, nil
}
