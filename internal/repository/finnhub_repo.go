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

// finnhubRepository is the primary quote provider tier.
type finnhubRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewFinnhubRepository creates a new instance of finnhubRepository.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) QuoteProvider {
	secondsPerRequest := time.Minute / time.Duration(cfg.Finnhub.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &finnhubRepository{
		httpClient:     httpclient.New(cfg.Finnhub.BaseURL, cfg.Finnhub.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *finnhubRepository) Name() string {
	return "finnhub"
}

func (r *finnhubRepository) Configured() bool {
	return r.cfg.Finnhub.APIKey != ""
}

// FormatSymbol maps a classified symbol to Finnhub's wire format. Crypto goes
// through the BINANCE feed as a USDT pair, forex through the OANDA feed.
func (r *finnhubRepository) FormatSymbol(symbol string, assetType dto.AssetType) string {
	switch assetType {
	case dto.AssetTypeCrypto:
		root := strings.TrimSuffix(strings.TrimSuffix(symbol, "-USD"), "USD")
		return fmt.Sprintf("BINANCE:%sUSDT", root)
	case dto.AssetTypeForex:
		if len(symbol) == 6 {
			return fmt.Sprintf("OANDA:%s_%s", symbol[:3], symbol[3:])
		}
		return symbol
	default:
		return symbol
	}
}

func (r *finnhubRepository) GetQuote(ctx context.Context, param dto.GetQuoteParam) (*dto.Quote, error) {
	if !r.Configured() {
		return nil, ErrProviderUnavailable
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	wireSymbol := r.FormatSymbol(param.Symbol, param.AssetType)
	queryParams := map[string]string{
		"symbol": wireSymbol,
		"token":  r.cfg.Finnhub.APIKey,
	}

	var quoteResp dto.FinnhubQuoteResponse
	resp, err := r.httpClient.Get(ctx, "/quote", queryParams, nil, &quoteResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote from finnhub: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Finnhub API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", wireSymbol))
		return nil, fmt.Errorf("finnhub api returned status: %d", resp.StatusCode)
	}

	// Finnhub answers 200 with zeroed fields for unknown symbols
	if quoteResp.Current <= 0 {
		return nil, fmt.Errorf("no usable price for symbol %s: %w", param.Symbol, ErrProviderUnavailable)
	}

	return &dto.Quote{
		Symbol:        param.Symbol,
		Price:         quoteResp.Current,
		Change:        quoteResp.Change,
		ChangePercent: quoteResp.ChangePercent,
		AssetType:     param.AssetType,
		Source:        r.Name(),
		LastUpdated:   time.Now(),
	}, nil
}

func (r *finnhubRepository) GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	if !r.Configured() {
		return nil, ErrProviderUnavailable
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"symbol": symbol,
		"token":  r.cfg.Finnhub.APIKey,
	}

	var profileResp dto.FinnhubProfileResponse
	resp, err := r.httpClient.Get(ctx, "/stock/profile2", queryParams, nil, &profileResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company profile from finnhub: %w", err)
	}

	if resp.StatusCode != http.StatusOK || profileResp.Name == "" {
		return nil, fmt.Errorf("no company profile for symbol %s: %w", symbol, ErrProviderUnavailable)
	}

	return &dto.CompanyInfo{
		Name:   profileResp.Name,
		Sector: profileResp.FinnhubIndustry,
	}, nil
}

func (r *finnhubRepository) GetNews(ctx context.Context, limit int) ([]dto.NewsItem, error) {
	if !r.Configured() {
		return nil, ErrProviderUnavailable
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"category": "general",
		"token":    r.cfg.Finnhub.APIKey,
	}

	var newsResp []dto.FinnhubNewsItem
	resp, err := r.httpClient.Get(ctx, "/news", queryParams, nil, &newsResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news from finnhub: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub news api returned status: %d", resp.StatusCode)
	}

	items := make([]dto.NewsItem, 0, limit)
	for _, n := range newsResp {
		if len(items) >= limit {
			break
		}
		items = append(items, dto.NewsItem{
			Headline:      n.Headline,
			Summary:       n.Summary,
			Source:        n.Source,
			URL:           n.URL,
			RelatedSymbol: n.Related,
			PublishedAt:   time.Unix(n.Datetime, 0),
		})
	}

	return items, nil
}
