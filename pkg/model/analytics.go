package model

import (
	"fmt"
	"math"
	"strings"
)

// Period names a timeframe bucket accepted by /api/v1/analytics/timeframe/{period}.
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists the timeframe buckets in display order.
var Periods = []Period{PeriodHour, PeriodDay, PeriodMonth, PeriodYear}

// ParsePeriod converts a string to a Period (case-insensitive).
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid period %q (use hour, day, month, year)", s)
}

// TimeframeStats holds activity counts for one period.
type TimeframeStats struct {
	Period      string `json:"period"`
	ClickCount  int    `json:"click_count"`
	URLCount    int    `json:"url_count"`
	UniqueUsers int    `json:"unique_users"`
}

// TimeframeData maps each period to its stats. Any bucket may be absent.
type TimeframeData struct {
	Hour  *TimeframeStats `json:"hour,omitempty"`
	Day   *TimeframeStats `json:"day,omitempty"`
	Month *TimeframeStats `json:"month,omitempty"`
	Year  *TimeframeStats `json:"year,omitempty"`
}

// TimeframeRow is one present bucket of TimeframeData.
type TimeframeRow struct {
	Period Period
	Stats  TimeframeStats
}

// Rows returns the present buckets ordered hour, day, month, year.
func (d TimeframeData) Rows() []TimeframeRow {
	var rows []TimeframeRow
	for _, p := range Periods {
		if s := d.Get(p); s != nil {
			rows = append(rows, TimeframeRow{Period: p, Stats: *s})
		}
	}
	return rows
}

// Get returns the stats for p, or nil if the backend omitted it.
func (d TimeframeData) Get(p Period) *TimeframeStats {
	switch p {
	case PeriodHour:
		return d.Hour
	case PeriodDay:
		return d.Day
	case PeriodMonth:
		return d.Month
	case PeriodYear:
		return d.Year
	}
	return nil
}

// OverviewStats is the response of GET /api/v1/analytics/overview.
type OverviewStats struct {
	TotalUsers    int           `json:"total_users"`
	TotalURLs     int           `json:"total_urls"`
	TotalClicks   int           `json:"total_clicks"`
	RecentUsers   []string      `json:"recent_users"`
	TimeframeData TimeframeData `json:"timeframe_data"`
}

// AverageClicksPerURL returns total clicks divided by total URLs, rounded
// to the nearest integer. Zero URLs yields zero.
func (o *OverviewStats) AverageClicksPerURL() int {
	if o == nil || o.TotalURLs == 0 {
		return 0
	}
	return int(math.Round(float64(o.TotalClicks) / float64(o.TotalURLs)))
}

// PopularURL is one entry of GET /api/v1/analytics/popular.
type PopularURL struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	Clicks      int    `json:"clicks"`
	Username    string `json:"username,omitempty"`
}
