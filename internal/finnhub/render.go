package finnhub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNoNews indicates an empty news list where articles were expected.
var ErrNoNews = errors.New("finnhub: no news found")

// newsDisplayLimit caps how many articles a news render shows.
const newsDisplayLimit = 5

// FormatProfile renders a company profile as a multi-line block.
func FormatProfile(p Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company name: %s\n", p.Name)
	fmt.Fprintf(&b, "Country: %s\n", p.Country)
	fmt.Fprintf(&b, "Currency: %s\n", p.Currency)
	fmt.Fprintf(&b, "Exchange: %s\n", p.Exchange)
	fmt.Fprintf(&b, "Industry: %s\n", p.Industry)
	fmt.Fprintf(&b, "Ipo: %s\n", p.IPO)
	fmt.Fprintf(&b, "Market capitalization: %v\n", p.MarketCapitalization)
	fmt.Fprintf(&b, "Ticker: %s\n", p.Ticker)
	fmt.Fprintf(&b, "Shares: %v\n", p.SharesOutstanding)
	fmt.Fprintf(&b, "Phone: %s\n", p.Phone)
	fmt.Fprintf(&b, "Url: %s", p.WebURL)
	return b.String()
}

// FormatNews renders the five most recent articles, one per line as
// "DATE HEADLINE || SOURCE" with the date truncated to calendar-day
// precision. An empty list is an error, not silent empty output.
func FormatNews(items []NewsItem) (string, error) {
	if len(items) == 0 {
		return "", ErrNoNews
	}

	sorted := append([]NewsItem(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime > sorted[j].Datetime
	})
	if len(sorted) > newsDisplayLimit {
		sorted = sorted[:newsDisplayLimit]
	}

	lines := make([]string, 0, len(sorted))
	for _, item := range sorted {
		date := time.Unix(item.Datetime, 0).UTC().Format("2006-01-02")
		lines = append(lines, fmt.Sprintf("%s %s || %s", date, item.Headline, item.Source))
	}
	return strings.Join(lines, "\n"), nil
}
