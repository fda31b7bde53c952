package service

import (
	"context"
	"fmt"
	"time"

	"github.com/linkdeck/linkdeck/internal/app/repository"
)

const (
	recentClickLimit   = 10
	topLinkLimit       = 5
	browserLimit       = 5
	clicksPerDayWindow = 30 * 24 * time.Hour
)

// Dashboard bundles everything the analytics view renders for one user.
type Dashboard struct {
	Totals       repository.DashboardTotals
	RecentClicks []repository.RecentClick
	ClicksPerDay []repository.DailyClicks
	TopLinks     []repository.TopLink
	Devices      []repository.BreakdownRow
	Browsers     []repository.BreakdownRow
}

// AnalyticsService assembles the per-user analytics dashboard.
type AnalyticsService interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService returns a service backed by the aggregation repository.
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	recent, err := s.repo.RecentClicks(ctx, userID, recentClickLimit)
	if err != nil {
		return nil, fmt.Errorf("recent clicks: %w", err)
	}

	perDay, err := s.repo.ClicksPerDay(ctx, userID, time.Now().Add(-clicksPerDayWindow))
	if err != nil {
		return nil, fmt.Errorf("clicks per day: %w", err)
	}

	top, err := s.repo.TopLinks(ctx, userID, topLinkLimit)
	if err != nil {
		return nil, fmt.Errorf("top links: %w", err)
	}

	devices, err := s.repo.DeviceBreakdown(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("device breakdown: %w", err)
	}

	browsers, err := s.repo.BrowserBreakdown(ctx, userID, browserLimit)
	if err != nil {
		return nil, fmt.Errorf("browser breakdown: %w", err)
	}

	return &Dashboard{
		Totals:       *totals,
		RecentClicks: recent,
		ClicksPerDay: perDay,
		TopLinks:     top,
		Devices:      devices,
		Browsers:     browsers,
	}, nil
}
