package finnhub

// Profile is the /stock/profile2 response schema.
type Profile struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	Industry             string  `json:"finnhubIndustry"`
	IPO                  string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	SharesOutstanding    float64 `json:"shareOutstanding"`
	Ticker               string  `json:"ticker"`
	WebURL               string  `json:"weburl"`
}

// StockSymbol is one instrument record from /stock/symbol.
type StockSymbol struct {
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	DisplaySymbol string `json:"displaySymbol"`
	FIGI          string `json:"figi"`
	MIC           string `json:"mic"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type"`
}

// NewsItem is one article from /news or /company-news.
type NewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
