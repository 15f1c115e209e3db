package service

import (
	"context"
	"io"
	"testing"
	"time"

	"roombook/internal/reports/repository"
	"roombook/pkg/config"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type mockReportRepository struct {
	dailyCountsFunc   func(ctx context.Context, from, to time.Time) ([]model.DailyCount, error)
	monthlyCountsFunc func(ctx context.Context, from time.Time) ([]repository.MonthlyBucket, error)
	topRoomsFunc      func(ctx context.Context, limit int) ([]model.RoomUsage, error)
	byStatus          map[string]int64
}

func (m *mockReportRepository) CountBookings(ctx context.Context) (int64, error) { return 12, nil }

func (m *mockReportRepository) CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return 2, nil
}

func (m *mockReportRepository) CountRooms(ctx context.Context) (int64, error) { return 3, nil }

func (m *mockReportRepository) CountUsers(ctx context.Context) (int64, error) { return 7, nil }

func (m *mockReportRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if m.byStatus != nil {
		return m.byStatus, nil
	}
	return map[string]int64{}, nil
}

func (m *mockReportRepository) DailyCounts(ctx context.Context, from, to time.Time) ([]model.DailyCount, error) {
	if m.dailyCountsFunc != nil {
		return m.dailyCountsFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *mockReportRepository) MonthlyCounts(ctx context.Context, from time.Time) ([]repository.MonthlyBucket, error) {
	if m.monthlyCountsFunc != nil {
		return m.monthlyCountsFunc(ctx, from)
	}
	return nil, nil
}

func (m *mockReportRepository) TopRooms(ctx context.Context, limit int) ([]model.RoomUsage, error) {
	if m.topRoomsFunc != nil {
		return m.topRoomsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockReportRepository) DepartmentUsage(ctx context.Context) ([]model.DepartmentUsage, error) {
	return nil, nil
}

func newTestService(repo *mockReportRepository) ReportService {
	cfg := &config.Config{
		Location: time.UTC,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
	return NewReportService(repo, cfg)
}

func TestDashboard_FillsAllStatuses(t *testing.T) {
	repo := &mockReportRepository{byStatus: map[string]int64{config.StatusApproved: 9}}
	svc := newTestService(repo)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if stats.TotalBookings != 12 || stats.TotalRooms != 3 || stats.TotalUsers != 7 {
		t.Errorf("totals = %d/%d/%d", stats.TotalBookings, stats.TotalRooms, stats.TotalUsers)
	}
	if stats.TodayBookings != 2 || stats.WeekBookings != 2 {
		t.Errorf("window counts = %d/%d", stats.TodayBookings, stats.WeekBookings)
	}
	if stats.ByStatus[config.StatusApproved] != 9 {
		t.Errorf("approved count = %d", stats.ByStatus[config.StatusApproved])
	}
	// Statuses with no bookings still appear with an explicit zero.
	for _, status := range []string{config.StatusPending, config.StatusRejected} {
		if count, ok := stats.ByStatus[status]; !ok || count != 0 {
			t.Errorf("status %s missing or nonzero: %d", status, count)
		}
	}
}

func TestBookingTrend_PadsMissingDays(t *testing.T) {
	repo := &mockReportRepository{
		dailyCountsFunc: func(ctx context.Context, from, to time.Time) ([]model.DailyCount, error) {
			// Only one day in the window has bookings.
			day := from.AddDate(0, 0, 1).Format("2006-01-02")
			return []model.DailyCount{{Day: day, Count: 4}}, nil
		},
	}
	svc := newTestService(repo)

	trend, err := svc.BookingTrend(context.Background(), 7)
	if err != nil {
		t.Fatalf("BookingTrend failed: %v", err)
	}

	if len(trend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(trend))
	}

	var total int64
	nonzero := 0
	for i, point := range trend {
		total += point.Count
		if point.Count > 0 {
			nonzero++
		}
		if i > 0 && trend[i-1].Day >= point.Day {
			t.Errorf("days out of order: %s then %s", trend[i-1].Day, point.Day)
		}
	}
	if total != 4 || nonzero != 1 {
		t.Errorf("total = %d, nonzero days = %d", total, nonzero)
	}
}

func TestBookingTrend_ClampsWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	repo := &mockReportRepository{
		dailyCountsFunc: func(ctx context.Context, from, to time.Time) ([]model.DailyCount, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTestService(repo)

	trend, err := svc.BookingTrend(context.Background(), 0)
	if err != nil {
		t.Fatalf("BookingTrend failed: %v", err)
	}
	if len(trend) != DefaultTrendDays {
		t.Errorf("zero days should fall back to the default window, got %d", len(trend))
	}
	if days := int(gotTo.Sub(gotFrom).Hours() / 24); days != DefaultTrendDays {
		t.Errorf("queried window = %d days", days)
	}

	trend, err = svc.BookingTrend(context.Background(), 10000)
	if err != nil {
		t.Fatalf("BookingTrend failed: %v", err)
	}
	if len(trend) != MaxTrendDays {
		t.Errorf("oversized request should clamp to %d, got %d", MaxTrendDays, len(trend))
	}
}

func TestMonthlyStats_PadsMissingMonths(t *testing.T) {
	var gotFrom time.Time
	repo := &mockReportRepository{
		monthlyCountsFunc: func(ctx context.Context, from time.Time) ([]repository.MonthlyBucket, error) {
			gotFrom = from
			// Only the oldest month in the window has bookings.
			return []repository.MonthlyBucket{
				{Month: from.Format("2006-01"), Total: 5, Approved: 3},
			}, nil
		},
	}
	svc := newTestService(repo)

	stats, err := svc.MonthlyStats(context.Background(), 0)
	if err != nil {
		t.Fatalf("MonthlyStats failed: %v", err)
	}

	if len(stats) != DefaultStatsMonths {
		t.Fatalf("stats length = %d, want %d", len(stats), DefaultStatsMonths)
	}
	if gotFrom.Day() != 1 {
		t.Errorf("window should start on the first of the month, got day %d", gotFrom.Day())
	}

	if stats[0].Total != 5 || stats[0].Approved != 3 {
		t.Errorf("oldest month = %+v", stats[0])
	}
	if want := gotFrom.Format("Jan 2006"); stats[0].Month != want {
		t.Errorf("oldest month label = %q, want %q", stats[0].Month, want)
	}
	for i, point := range stats[1:] {
		if point.Total != 0 || point.Approved != 0 {
			t.Errorf("month %d should be zero-padded, got %+v", i+1, point)
		}
	}

	now := time.Now().UTC()
	if last := stats[len(stats)-1].Month; last != now.Format("Jan 2006") {
		t.Errorf("series should end on the current month, got %q", last)
	}
}

func TestMonthlyStats_ClampsWindow(t *testing.T) {
	repo := &mockReportRepository{}
	svc := newTestService(repo)

	stats, err := svc.MonthlyStats(context.Background(), 10000)
	if err != nil {
		t.Fatalf("MonthlyStats failed: %v", err)
	}
	if len(stats) != MaxStatsMonths {
		t.Errorf("oversized request should clamp to %d, got %d", MaxStatsMonths, len(stats))
	}
}

func TestPopularRooms_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockReportRepository{
		topRoomsFunc: func(ctx context.Context, limit int) ([]model.RoomUsage, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.PopularRooms(context.Background(), -1); err != nil {
		t.Fatalf("PopularRooms failed: %v", err)
	}
	if gotLimit != DefaultTopRooms {
		t.Errorf("negative limit should fall back to default, got %d", gotLimit)
	}

	if _, err := svc.PopularRooms(context.Background(), 500); err != nil {
		t.Fatalf("PopularRooms failed: %v", err)
	}
	if gotLimit != MaxTopRooms {
		t.Errorf("oversized limit should clamp to %d, got %d", MaxTopRooms, gotLimit)
	}
}
