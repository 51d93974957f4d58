package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/repository"
	"alphadesk/pkg/cache"
	"alphadesk/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// QuoteResolverService resolves quotes across the provider waterfall. Resolve
// never fails: when every provider tier is down or unconfigured it degrades to
// a deterministic-ish synthetic quote so the dashboard always has something to
// render.
type QuoteResolverService interface {
	Resolve(ctx context.Context, symbol string) dto.Quote
	ResolveMany(ctx context.Context, symbols []string) []dto.Quote
	CompanyInfo(ctx context.Context, symbol string) dto.CompanyInfo
	News(ctx context.Context, limit int) []dto.NewsItem
	ClassifyAssetType(symbol string) dto.AssetType
}

type quoteResolverService struct {
	cfg       *config.Config
	log       *logger.Logger
	providers []repository.QuoteProvider
	cache     cache.Cache
	ttl       time.Duration
	now       func() time.Time
}

type cachedQuote struct {
	quote    dto.Quote
	storedAt time.Time
}

func NewQuoteResolverService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	providers []repository.QuoteProvider,
) QuoteResolverService {
	return &quoteResolverService{
		cfg:       cfg,
		log:       log,
		providers: providers,
		cache:     inmemoryCache,
		ttl:       cfg.Cache.QuoteTTL,
		now:       time.Now,
	}
}

var cryptoRoots = []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOGE", "DOT", "AVAX", "MATIC", "LINK", "LTC", "BNB"}

var currencyCodes = []string{"USD", "EUR", "JPY", "GBP", "AUD", "CAD", "CHF", "NZD"}

var commodityTickers = map[string]struct{}{
	"GC=F": {}, "SI=F": {}, "CL=F": {}, "NG=F": {}, "HG=F": {},
	"ZC=F": {}, "ZW=F": {}, "GOLD": {}, "SILVER": {}, "OIL": {},
}

var etfTickers = map[string]struct{}{
	"SPY": {}, "QQQ": {}, "VOO": {}, "VTI": {}, "IWM": {}, "DIA": {},
	"ARKK": {}, "XLF": {}, "XLK": {}, "XLE": {}, "GLD": {}, "SLV": {},
	"EEM": {}, "VEA": {},
}

// ClassifyAssetType buckets a symbol by pattern. Order matters: a crypto pair
// like BTCUSD would otherwise pass the 6-letter forex check.
func (s *quoteResolverService) ClassifyAssetType(symbol string) dto.AssetType {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if strings.Contains(symbol, "USD") {
		root := strings.TrimSuffix(strings.TrimSuffix(symbol, "-USD"), "USD")
		for _, c := range cryptoRoots {
			if root == c {
				return dto.AssetTypeCrypto
			}
		}
	}

	if strings.HasSuffix(symbol, "=X") {
		return dto.AssetTypeForex
	}
	if len(symbol) == 6 {
		for _, code := range currencyCodes {
			if strings.Contains(symbol, code) {
				return dto.AssetTypeForex
			}
		}
	}

	if _, ok := commodityTickers[symbol]; ok {
		return dto.AssetTypeCommodity
	}

	if _, ok := etfTickers[symbol]; ok {
		return dto.AssetTypeETF
	}

	return dto.AssetTypeStock
}

func (s *quoteResolverService) Resolve(ctx context.Context, symbol string) dto.Quote {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	assetType := s.ClassifyAssetType(symbol)

	if entry, found := cache.GetTyped[cachedQuote](s.cache, quoteCacheKey(symbol)); found {
		if s.now().Sub(entry.storedAt) < s.ttl {
			return entry.quote
		}
	}

	param := dto.GetQuoteParam{Symbol: symbol, AssetType: assetType}

	for _, provider := range s.providers {
		if !provider.Configured() {
			continue
		}

		providerCtx, cancel := context.WithTimeout(ctx, s.cfg.Resolver.ProviderTimeout)
		quote, err := provider.GetQuote(providerCtx, param)
		cancel()

		if err != nil || quote == nil || quote.Price <= 0 {
			s.log.WarnContext(ctx, "Quote provider tier failed, trying next",
				logger.StringField("symbol", symbol),
				logger.StringField("provider", provider.Name()),
				logger.ErrorField(err),
			)
			continue
		}

		s.enrichCompanyInfo(ctx, quote)
		s.storeInCache(symbol, *quote)
		return *quote
	}

	quote := s.syntheticQuote(symbol, assetType)
	s.storeInCache(symbol, quote)
	return quote
}

// ResolveMany fans out fixed-size batches with a short delay in between so a
// dashboard page load does not burn through provider rate limits.
func (s *quoteResolverService) ResolveMany(ctx context.Context, symbols []string) []dto.Quote {
	batchSize := s.cfg.Resolver.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	quotes := make([]dto.Quote, 0, len(symbols))

	for start := 0; start < len(symbols); start += batchSize {
		if ctx.Err() != nil {
			break
		}

		end := start + batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]
		results := make([]*dto.Quote, len(batch))

		g, gCtx := errgroup.WithContext(ctx)
		for i, symbol := range batch {
			i, symbol := i, symbol
			g.Go(func() error {
				quote := s.Resolve(gCtx, symbol)
				results[i] = &quote
				return nil
			})
		}
		// Resolve never errors, Wait only observes context cancellation
		_ = g.Wait()

		for _, q := range results {
			if q != nil {
				quotes = append(quotes, *q)
			}
		}

		if end < len(symbols) {
			select {
			case <-ctx.Done():
				return quotes
			case <-time.After(s.cfg.Resolver.BatchDelay):
			}
		}
	}

	return quotes
}

func (s *quoteResolverService) CompanyInfo(ctx context.Context, symbol string) dto.CompanyInfo {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if info, found := cache.GetTyped[dto.CompanyInfo](s.cache, companyCacheKey(symbol)); found {
		return info
	}

	for _, provider := range s.providers {
		if !provider.Configured() {
			continue
		}

		providerCtx, cancel := context.WithTimeout(ctx, s.cfg.Resolver.ProviderTimeout)
		info, err := provider.GetCompanyInfo(providerCtx, symbol)
		cancel()

		if err != nil || info == nil || info.Name == "" {
			continue
		}

		s.cache.Set(companyCacheKey(symbol), *info, s.cfg.Cache.CleanupInterval)
		return *info
	}

	if info, ok := staticCompanyInfo[symbol]; ok {
		return info
	}
	return dto.CompanyInfo{Name: symbol, Sector: "Unknown"}
}

// News returns recent market headlines from the first provider tier that
// carries a news feed. No synthetic fallback here, an empty slice is fine.
func (s *quoteResolverService) News(ctx context.Context, limit int) []dto.NewsItem {
	for _, provider := range s.providers {
		if !provider.Configured() {
			continue
		}

		providerCtx, cancel := context.WithTimeout(ctx, s.cfg.Resolver.ProviderTimeout)
		items, err := provider.GetNews(providerCtx, limit)
		cancel()

		if err != nil || len(items) == 0 {
			continue
		}
		return items
	}
	return []dto.NewsItem{}
}

func (s *quoteResolverService) enrichCompanyInfo(ctx context.Context, quote *dto.Quote) {
	if quote.AssetType != dto.AssetTypeStock && quote.AssetType != dto.AssetTypeETF {
		return
	}
	info := s.CompanyInfo(ctx, quote.Symbol)
	quote.CompanyName = info.Name
	quote.Sector = info.Sector
}

// syntheticQuote is the last waterfall tier. Prices come from the static base
// table when the symbol is known, otherwise from a type-dependent range; the
// percent change is drawn from a type-dependent volatility band.
func (s *quoteResolverService) syntheticQuote(symbol string, assetType dto.AssetType) dto.Quote {
	price, ok := staticBasePrices[symbol]
	if !ok {
		price = randomBasePrice(assetType)
	}

	band := volatilityBand(assetType)
	changePercent := (rand.Float64()*2 - 1) * band
	change := price * changePercent / 100

	quote := dto.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        rand.Int63n(9_000_000) + 1_000_000,
		AssetType:     assetType,
		Source:        "synthetic",
		LastUpdated:   s.now(),
	}

	if info, ok := staticCompanyInfo[symbol]; ok {
		quote.CompanyName = info.Name
		quote.Sector = info.Sector
	}

	return quote
}

func (s *quoteResolverService) storeInCache(symbol string, quote dto.Quote) {
	s.cache.Set(quoteCacheKey(symbol), cachedQuote{quote: quote, storedAt: s.now()}, s.ttl*2)
}

func quoteCacheKey(symbol string) string {
	return "quote:" + symbol
}

func companyCacheKey(symbol string) string {
	return "company:" + symbol
}

func volatilityBand(assetType dto.AssetType) float64 {
	switch assetType {
	case dto.AssetTypeCrypto:
		return 8.0
	case dto.AssetTypeForex:
		return 0.8
	default:
		return 3.0
	}
}

func randomBasePrice(assetType dto.AssetType) float64 {
	switch assetType {
	case dto.AssetTypeCrypto:
		return 50 + rand.Float64()*950
	case dto.AssetTypeForex:
		return 0.5 + rand.Float64()
	case dto.AssetTypeCommodity:
		return 20 + rand.Float64()*1980
	case dto.AssetTypeETF:
		return 50 + rand.Float64()*400
	default:
		return 10 + rand.Float64()*490
	}
}

var staticBasePrices = map[string]float64{
	"AAPL":    175.43,
	"MSFT":    415.20,
	"GOOGL":   141.80,
	"AMZN":    178.22,
	"NVDA":    875.28,
	"META":    485.58,
	"TSLA":    177.67,
	"JPM":     182.89,
	"V":       275.96,
	"JNJ":     147.52,
	"SPY":     510.34,
	"QQQ":     437.07,
	"VTI":     252.10,
	"BTCUSD":  67150.00,
	"ETHUSD":  3520.00,
	"SOLUSD":  148.50,
	"EURUSD":  1.0832,
	"GBPUSD":  1.2645,
	"USDJPY":  151.42,
	"GC=F":    2345.60,
	"CL=F":    82.70,
}

var staticCompanyInfo = map[string]dto.CompanyInfo{
	"AAPL":  {Name: "Apple Inc.", Sector: "Technology"},
	"MSFT":  {Name: "Microsoft Corporation", Sector: "Technology"},
	"GOOGL": {Name: "Alphabet Inc.", Sector: "Communication Services"},
	"AMZN":  {Name: "Amazon.com Inc.", Sector: "Consumer Cyclical"},
	"NVDA":  {Name: "NVIDIA Corporation", Sector: "Technology"},
	"META":  {Name: "Meta Platforms Inc.", Sector: "Communication Services"},
	"TSLA":  {Name: "Tesla Inc.", Sector: "Consumer Cyclical"},
	"JPM":   {Name: "JPMorgan Chase & Co.", Sector: "Financial Services"},
	"V":     {Name: "Visa Inc.", Sector: "Financial Services"},
	"JNJ":   {Name: "Johnson & Johnson", Sector: "Healthcare"},
	"SPY":   {Name: "SPDR S&P 500 ETF Trust", Sector: "Broad Market"},
	"QQQ":   {Name: "Invesco QQQ Trust", Sector: "Technology"},
	"VTI":   {Name: "Vanguard Total Stock Market ETF", Sector: "Broad Market"},
}
