package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/me/minify/pkg/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

// shortLink is the displayed form of a short URL: the server host without
// its scheme, then the code.
func shortLink(serverURL, code string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(serverURL, "https://"), "http://")
	return host + "/" + code
}

func created(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// renderURLs prints the dashboard for user.
func renderURLs(w io.Writer, serverURL string, user *model.User, urls []model.URL) {
	fmt.Fprintln(w, titleStyle.Render("Dashboard"))
	fmt.Fprintf(w, "Welcome back, %s! Here are your Minified URLs.\n\n", user.Username)

	clicks := 0
	for _, u := range urls {
		clicks += u.Clicks
	}
	avg := 0
	if len(urls) > 0 {
		avg = int(math.Round(float64(clicks) / float64(len(urls))))
	}
	fmt.Fprintf(w, "Total URLs: %s   Total Clicks: %s   Average Clicks: %s\n\n",
		count(len(urls)), count(clicks), count(avg))

	if len(urls) == 0 {
		fmt.Fprintln(w, "You haven't Minified any URLs yet")
		fmt.Fprintln(w, mutedStyle.Render(`Minify your first URL with "minify shorten <url>"`))
		return
	}

	t := newTable("SHORT URL", "ORIGINAL URL", "CLICKS", "CREATED")
	for _, u := range urls {
		t.Row(shortLink(serverURL, u.ShortCode), u.OriginalURL, count(u.Clicks), created(u.CreatedAt))
	}
	fmt.Fprintln(w, t.Render())
}

// renderAdmin prints the admin dashboard.
func renderAdmin(w io.Writer, stats *model.OverviewStats, popular []model.PopularURL) {
	fmt.Fprintln(w, titleStyle.Render("Admin Dashboard"))
	fmt.Fprintln(w, "System overview and analytics for Minify URL shortener")
	fmt.Fprintln(w)

	totals := newTable("TOTAL USERS", "TOTAL URLS", "TOTAL CLICKS", "AVG CLICKS/URL")
	totals.Row(count(stats.TotalUsers), count(stats.TotalURLs), count(stats.TotalClicks), count(stats.AverageClicksPerURL()))
	fmt.Fprintln(w, totals.Render())

	fmt.Fprintln(w, titleStyle.Render("Activity by Timeframe"))
	rows := stats.TimeframeData.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(w, "No activity data")
	} else {
		tf := newTable("PERIOD", "CLICKS", "URLS", "USERS")
		for _, r := range rows {
			tf.Row(periodLabel(r.Period), count(r.Stats.ClickCount), count(r.Stats.URLCount), count(r.Stats.UniqueUsers))
		}
		fmt.Fprintln(w, tf.Render())
	}

	fmt.Fprintln(w, titleStyle.Render("Popular URLs"))
	if len(popular) == 0 {
		fmt.Fprintln(w, "No URLs found")
	} else {
		pt := newTable("#", "SHORT CODE", "ORIGINAL URL", "BY", "CLICKS")
		for i, p := range popular {
			pt.Row(strconv.Itoa(i+1), "/"+p.ShortCode, p.OriginalURL, p.Username, count(p.Clicks)+" clicks")
		}
		fmt.Fprintln(w, pt.Render())
	}

	fmt.Fprintln(w, titleStyle.Render("Recent Users"))
	if len(stats.RecentUsers) == 0 {
		fmt.Fprintln(w, "No recent users")
		return
	}
	for _, name := range stats.RecentUsers {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// renderTimeframe prints the stats for one period.
func renderTimeframe(w io.Writer, stats *model.TimeframeStats) {
	t := newTable("PERIOD", "CLICKS", "URLS", "USERS")
	t.Row(periodLabel(model.Period(stats.Period)), count(stats.ClickCount), count(stats.URLCount), count(stats.UniqueUsers))
	fmt.Fprintln(w, t.Render())
}

func periodLabel(p model.Period) string {
	s := string(p)
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
