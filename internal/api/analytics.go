package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/me/minify/pkg/model"
)

var (
	opOverview  = operation{name: "analytics_overview", fallback: "Failed to load analytics"}
	opPopular   = operation{name: "analytics_popular", fallback: "Failed to load analytics"}
	opTimeframe = operation{name: "analytics_timeframe", fallback: "Failed to load timeframe stats"}
)

// AnalyticsService covers the aggregate statistics endpoints.
type AnalyticsService struct {
	c *Client
}

// Overview returns system-wide totals and per-period activity.
func (s *AnalyticsService) Overview(ctx context.Context) (*model.OverviewStats, error) {
	var stats model.OverviewStats
	if err := s.c.get(ctx, opOverview, model.PathOverview, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Popular returns the top limit URLs by clicks. limit <= 0 means
// model.DefaultPopularLimit.
func (s *AnalyticsService) Popular(ctx context.Context, limit int) ([]model.PopularURL, error) {
	if limit <= 0 {
		limit = model.DefaultPopularLimit
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var popular []model.PopularURL
	if err := s.c.get(ctx, opPopular, model.PathPopular+"?"+q.Encode(), &popular); err != nil {
		return nil, err
	}
	return popular, nil
}

// Timeframe returns activity for one period bucket. The period is passed
// through as-is; the backend rejects unknown ones.
func (s *AnalyticsService) Timeframe(ctx context.Context, period model.Period) (*model.TimeframeStats, error) {
	var stats model.TimeframeStats
	path := model.PathTimeframePrefix + url.PathEscape(string(period))
	if err := s.c.get(ctx, opTimeframe, path, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
