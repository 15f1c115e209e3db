package service

import (
	"context"
	"sync"
	"time"

	"roombook/internal/reports/repository"
	"roombook/internal/scheduling"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 365

	DefaultTopRooms = 10
	MaxTopRooms     = 50

	DefaultStatsMonths = 6
	MaxStatsMonths     = 24
)

type ReportService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
	BookingTrend(ctx context.Context, days int) ([]model.DailyCount, error)
	MonthlyStats(ctx context.Context, months int) ([]model.MonthlyCount, error)
	PopularRooms(ctx context.Context, limit int) ([]model.RoomUsage, error)
	DepartmentUsage(ctx context.Context) ([]model.DepartmentUsage, error)
}

type reportService struct {
	repo repository.ReportRepository
	cfg  *config.Config
}

func NewReportService(repo repository.ReportRepository, cfg *config.Config) ReportService {
	return &reportService{repo: repo, cfg: cfg}
}

// Dashboard fans the independent counts out in parallel and returns the
// first error encountered.
func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}
	dayStart, dayEnd := scheduling.DayWindow(time.Now().In(s.cfg.Location), s.cfg.Location)
	weekStart := dayEnd.AddDate(0, 0, -7)

	var wg sync.WaitGroup
	errs := make([]error, 6)

	wg.Add(6)
	go func() {
		defer wg.Done()
		stats.TotalBookings, errs[0] = s.repo.CountBookings(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TotalRooms, errs[1] = s.repo.CountRooms(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TotalUsers, errs[2] = s.repo.CountUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TodayBookings, errs[3] = s.repo.CountBookingsBetween(ctx, dayStart, dayEnd)
	}()
	go func() {
		defer wg.Done()
		stats.WeekBookings, errs[4] = s.repo.CountBookingsBetween(ctx, weekStart, dayEnd)
	}()
	go func() {
		defer wg.Done()
		stats.ByStatus, errs[5] = s.repo.CountByStatus(ctx)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, apperrors.Internal("Failed to build dashboard statistics", err)
		}
	}

	// Every status shows up even when no booking carries it yet.
	for _, status := range []string{config.StatusPending, config.StatusApproved, config.StatusRejected} {
		if _, ok := stats.ByStatus[status]; !ok {
			stats.ByStatus[status] = 0
		}
	}
	return stats, nil
}

func (s *reportService) BookingTrend(ctx context.Context, days int) ([]model.DailyCount, error) {
	if days <= 0 {
		days = DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}

	_, dayEnd := scheduling.DayWindow(time.Now().In(s.cfg.Location), s.cfg.Location)
	from := dayEnd.AddDate(0, 0, -days)

	counts, err := s.repo.DailyCounts(ctx, from, dayEnd)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute booking trend", err)
	}
	return s.fillMissingDays(counts, from, days), nil
}

// fillMissingDays pads days without bookings with zero counts so the
// series covers the whole requested window.
func (s *reportService) fillMissingDays(counts []model.DailyCount, from time.Time, days int) []model.DailyCount {
	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
	}

	filled := make([]model.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		filled = append(filled, model.DailyCount{Day: day, Count: byDay[day]})
	}
	return filled
}

// MonthlyStats reports total and approved booking requests per calendar
// month over the trailing window, the current month included. Months
// without any bookings appear with zero counts, oldest first.
func (s *reportService) MonthlyStats(ctx context.Context, months int) ([]model.MonthlyCount, error) {
	if months <= 0 {
		months = DefaultStatsMonths
	}
	if months > MaxStatsMonths {
		months = MaxStatsMonths
	}

	now := time.Now().In(s.cfg.Location)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.cfg.Location)
	from := first.AddDate(0, -(months - 1), 0)

	buckets, err := s.repo.MonthlyCounts(ctx, from)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute monthly statistics", err)
	}

	byMonth := make(map[string]repository.MonthlyBucket, len(buckets))
	for _, b := range buckets {
		byMonth[b.Month] = b
	}

	stats := make([]model.MonthlyCount, 0, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0)
		bucket := byMonth[month.Format("2006-01")]
		stats = append(stats, model.MonthlyCount{
			Month:    month.Format("Jan 2006"),
			Total:    bucket.Total,
			Approved: bucket.Approved,
		})
	}
	return stats, nil
}

func (s *reportService) PopularRooms(ctx context.Context, limit int) ([]model.RoomUsage, error) {
	if limit <= 0 {
		limit = DefaultTopRooms
	}
	if limit > MaxTopRooms {
		limit = MaxTopRooms
	}

	usage, err := s.repo.TopRooms(ctx, limit)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute room usage", err)
	}
	return usage, nil
}

func (s *reportService) DepartmentUsage(ctx context.Context) ([]model.DepartmentUsage, error) {
	usage, err := s.repo.DepartmentUsage(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute department usage", err)
	}
	return usage, nil
}
