package model

import (
	"encoding/json"
	"testing"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"hour", PeriodHour, false},
		{"Day", PeriodDay, false},
		{" month ", PeriodMonth, false},
		{"year", PeriodYear, false},
		{"week", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeframeData_RowsSkipsMissingBuckets(t *testing.T) {
	var stats OverviewStats
	body := `{"total_users":2,"total_urls":3,"total_clicks":10,"recent_users":["bob"],
		"timeframe_data":{"year":{"period":"year","click_count":9},"hour":{"period":"hour","click_count":1}}}`
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rows := stats.TimeframeData.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Period != PeriodHour || rows[1].Period != PeriodYear {
		t.Errorf("expected hour then year, got %s then %s", rows[0].Period, rows[1].Period)
	}
	if rows[1].Stats.ClickCount != 9 {
		t.Errorf("expected year click_count 9, got %d", rows[1].Stats.ClickCount)
	}
}

func TestOverviewStats_AverageClicksPerURL(t *testing.T) {
	tests := []struct {
		urls, clicks, want int
	}{
		{0, 10, 0},
		{3, 10, 3},
		{4, 10, 3}, // 2.5 rounds away from zero
		{2, 7, 4},
	}
	for _, tt := range tests {
		o := &OverviewStats{TotalURLs: tt.urls, TotalClicks: tt.clicks}
		if got := o.AverageClicksPerURL(); got != tt.want {
			t.Errorf("AverageClicksPerURL(%d clicks / %d urls) = %d, want %d", tt.clicks, tt.urls, got, tt.want)
		}
	}

	var nilStats *OverviewStats
	if got := nilStats.AverageClicksPerURL(); got != 0 {
		t.Errorf("nil stats: expected 0, got %d", got)
	}
}

func TestSession_Valid(t *testing.T) {
	u := &User{ID: 1, Username: "alice"}
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil", nil, false},
		{"token only", &Session{Token: "t"}, false},
		{"user only", &Session{User: u}, false},
		{"both", &Session{Token: "t", User: u}, true},
	}
	for _, tt := range tests {
		if got := tt.s.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
