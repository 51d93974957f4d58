package dto

import "time"

// Quote is the normalized quote shape every provider adapter returns.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	AssetType     AssetType `json:"asset_type"`
	CompanyName   string    `json:"company_name,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	Source        string    `json:"source"`
	LastUpdated   time.Time `json:"last_updated"`
}

type CompanyInfo struct {
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

type NewsItem struct {
	Headline      string    `json:"headline"`
	Summary       string    `json:"summary"`
	Source        string    `json:"source"`
	URL           string    `json:"url"`
	RelatedSymbol string    `json:"related_symbol,omitempty"`
	PublishedAt   time.Time `json:"published_at"`
}

// GetQuoteParam carries the classified symbol into a provider adapter; each
// adapter applies its own wire formatting (e.g. "-USD", "=X").
type GetQuoteParam struct {
	Symbol    string    `json:"symbol"`
	AssetType AssetType `json:"asset_type"`
}

// Finnhub API shapes

type FinnhubQuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

type FinnhubProfileResponse struct {
	Name                 string  `json:"name"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Ticker               string  `json:"ticker"`
}

type FinnhubNewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Related  string `json:"related"`
	Datetime int64  `json:"datetime"`
}

// Yahoo Finance chart API shape

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}
