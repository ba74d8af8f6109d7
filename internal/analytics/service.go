package analytics

import (
	"context"
	"sync"
	"vizit/pkg/config"
	apperrors "vizit/pkg/errors"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type AnalyticsService interface {
	Report(ctx context.Context, actor model.Actor) (*model.AnalyticsReport, error)
}

type analyticsService struct {
	repo AnalyticsRepository
	cfg  *config.Config
}

func NewAnalyticsService(repo AnalyticsRepository, cfg *config.Config) AnalyticsService {
	return &analyticsService{
		repo: repo,
		cfg:  cfg,
	}
}

// Report assembles the dashboard rollup. The four aggregations are
// independent, so they run concurrently; the report is a point-in-time
// snapshot, not a consistent cut.
func (s *analyticsService) Report(ctx context.Context, actor model.Actor) (*model.AnalyticsReport, error) {
	if !actor.IsAdministrator() {
		return nil, apperrors.Forbidden("Only administrators may view analytics")
	}

	report := &model.AnalyticsReport{}
	errs := make([]error, 4)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		report.TotalBookings, errs[0] = s.repo.CountAll(ctx)
	}()

	go func() {
		defer wg.Done()
		report.ByStatus, errs[1] = s.repo.CountByStatus(ctx)
	}()

	go func() {
		defer wg.Done()
		report.ByRole, errs[2] = s.repo.CountByCreatorRole(ctx)
	}()

	go func() {
		defer wg.Done()
		report.TopProperties, errs[3] = s.repo.TopProperties(ctx, s.cfg.AnalyticsTopProperties)
	}()

	wg.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		s.cfg.Log.Error("Failed to assemble analytics report", "error", err)
		if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
			return nil, apperrors.Unavailable("booking store", err)
		}
		return nil, apperrors.Internal("Failed to assemble analytics report", err)
	}

	if report.ByStatus == nil {
		report.ByStatus = map[model.BookingStatus]int64{}
	}
	if report.ByRole == nil {
		report.ByRole = map[model.Role]int64{}
	}
	if report.TopProperties == nil {
		report.TopProperties = []model.PropertyBookingCount{}
	}

	return report, nil
}
