package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/pkg/httpclient"
	"alphadesk/pkg/logger"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository is the secondary quote provider tier. Yahoo needs no
// credential, so it is always configured and catches whatever the primary
// provider cannot serve (notably forex pairs).
type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) QuoteProvider {
	secondsPerRequest := time.Minute / time.Duration(cfg.Yahoo.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.Yahoo.BaseURL, cfg.Yahoo.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFinanceRepository) Name() string {
	return "yahoo_finance"
}

func (r *yahooFinanceRepository) Configured() bool {
	return true
}

// FormatSymbol maps a classified symbol to Yahoo's wire format: crypto pairs
// get a "-USD" suffix, 6-letter forex codes the "=X" marker.
func (r *yahooFinanceRepository) FormatSymbol(symbol string, assetType dto.AssetType) string {
	switch assetType {
	case dto.AssetTypeCrypto:
		if strings.HasSuffix(symbol, "-USD") {
			return symbol
		}
		return strings.TrimSuffix(symbol, "USD") + "-USD"
	case dto.AssetTypeForex:
		if len(symbol) == 6 && !strings.HasSuffix(symbol, "=X") {
			return symbol + "=X"
		}
		return symbol
	default:
		return symbol
	}
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, param dto.GetQuoteParam) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	wireSymbol := r.FormatSymbol(param.Symbol, param.AssetType)
	endpoint := "/" + wireSymbol

	queryParams := map[string]string{
		"range":          "1d",
		"interval":       "5m",
		"includePrePost": "false",
	}

	headers := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://finance.yahoo.com/",
	}

	var yahooResp dto.YahooChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, headers, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data from yahoo finance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", wireSymbol))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", yahooResp.Chart.Error)
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol %s: %w", wireSymbol, ErrProviderUnavailable)
	}

	result := yahooResp.Chart.Result[0]
	marketPrice := result.Meta.RegularMarketPrice
	if marketPrice <= 0 {
		return nil, fmt.Errorf("no usable price for symbol %s: %w", wireSymbol, ErrProviderUnavailable)
	}

	change := 0.0
	changePercent := 0.0
	if result.Meta.PreviousClose > 0 {
		change = marketPrice - result.Meta.PreviousClose
		changePercent = change / result.Meta.PreviousClose * 100
	}

	var volume int64
	if len(result.Indicators.Quote) > 0 {
		for _, v := range result.Indicators.Quote[0].Volume {
			volume += v
		}
	}

	return &dto.Quote{
		Symbol:        param.Symbol,
		Price:         marketPrice,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        volume,
		AssetType:     param.AssetType,
		Source:        r.Name(),
		LastUpdated:   time.Now(),
	}, nil
}

// GetCompanyInfo is not served by the chart endpoint; the resolver falls back
// to its static table.
func (r *yahooFinanceRepository) GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	return nil, ErrProviderUnavailable
}

// GetNews is served by the primary provider only.
func (r *yahooFinanceRepository) GetNews(ctx context.Context, limit int) ([]dto.NewsItem, error) {
	return nil, ErrProviderUnavailable
}
