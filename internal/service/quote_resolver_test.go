package service

import (
	"context"
	"testing"
	"time"

	"alphadesk/internal/dto"
	"alphadesk/internal/repository"
	"alphadesk/pkg/cache"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(providers ...repository.QuoteProvider) *quoteResolverService {
	cfg := newTestConfig()
	svc := NewQuoteResolverService(cfg, newTestLogger(), cache.NewCache(cfg.Cache.QuoteTTL, cfg.Cache.CleanupInterval), providers)
	return svc.(*quoteResolverService)
}

func TestQuoteResolverService_ClassifyAssetType(t *testing.T) {
	tests := []struct {
		symbol string
		want   dto.AssetType
	}{
		{symbol: "AAPL", want: dto.AssetTypeStock},
		{symbol: "aapl", want: dto.AssetTypeStock},
		{symbol: "SPY", want: dto.AssetTypeETF},
		{symbol: "QQQ", want: dto.AssetTypeETF},
		{symbol: "BTCUSD", want: dto.AssetTypeCrypto},
		{symbol: "BTC-USD", want: dto.AssetTypeCrypto},
		{symbol: "ETHUSD", want: dto.AssetTypeCrypto},
		{symbol: "EURUSD", want: dto.AssetTypeForex},
		{symbol: "GBPJPY", want: dto.AssetTypeForex},
		{symbol: "EURUSD=X", want: dto.AssetTypeForex},
		{symbol: "GC=F", want: dto.AssetTypeCommodity},
		{symbol: "CL=F", want: dto.AssetTypeCommodity},
		{symbol: "GOLD", want: dto.AssetTypeCommodity},
		{symbol: "TSLA", want: dto.AssetTypeStock},
	}

	svc := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ClassifyAssetType(tt.symbol))
		})
	}
}

func TestQuoteResolverService_Resolve_Waterfall(t *testing.T) {
	primary := &fakeProvider{
		name:       "finnhub",
		configured: true,
		quoteErr:   repository.ErrProviderUnavailable,
	}
	secondary := &fakeProvider{
		name:       "yahoo_finance",
		configured: true,
		quote:      &dto.Quote{Price: 101.5, Change: 1.5, ChangePercent: 1.5, Volume: 1000, Source: "yahoo_finance"},
	}

	svc := newTestResolver(primary, secondary)
	quote := svc.Resolve(context.Background(), "TSLA")

	assert.Equal(t, "TSLA", quote.Symbol)
	assert.Equal(t, 101.5, quote.Price)
	assert.Equal(t, "yahoo_finance", quote.Source)
	assert.Equal(t, 1, primary.hits())
	assert.Equal(t, 1, secondary.hits())
}

func TestQuoteResolverService_Resolve_SkipsUnconfiguredProvider(t *testing.T) {
	unconfigured := &fakeProvider{name: "finnhub", configured: false}
	secondary := &fakeProvider{
		name:       "yahoo_finance",
		configured: true,
		quote:      &dto.Quote{Price: 55, Source: "yahoo_finance"},
	}

	svc := newTestResolver(unconfigured, secondary)
	quote := svc.Resolve(context.Background(), "NFLX")

	assert.Equal(t, 0, unconfigured.hits())
	assert.Equal(t, "yahoo_finance", quote.Source)
}

func TestQuoteResolverService_Resolve_SyntheticFallback(t *testing.T) {
	svc := newTestResolver(&fakeProvider{name: "finnhub", configured: false})

	quote := svc.Resolve(context.Background(), "AAPL")

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "synthetic", quote.Source)
	assert.Equal(t, 175.43, quote.Price)
	assert.Equal(t, "Apple Inc.", quote.CompanyName)
	assert.Equal(t, "Technology", quote.Sector)
	assert.Equal(t, dto.AssetTypeStock, quote.AssetType)
	assert.LessOrEqual(t, quote.ChangePercent, 3.0)
	assert.GreaterOrEqual(t, quote.ChangePercent, -3.0)
	assert.Positive(t, quote.Volume)
}

func TestQuoteResolverService_Resolve_SyntheticUnknownSymbol(t *testing.T) {
	svc := newTestResolver()

	quote := svc.Resolve(context.Background(), "ZZZZ")

	assert.Equal(t, "synthetic", quote.Source)
	assert.Positive(t, quote.Price)
}

func TestQuoteResolverService_Resolve_CacheHit(t *testing.T) {
	provider := &fakeProvider{
		name:       "finnhub",
		configured: true,
		quote:      &dto.Quote{Price: 200, Source: "finnhub"},
	}
	svc := newTestResolver(provider)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first := svc.Resolve(context.Background(), "MSFT")
	second := svc.Resolve(context.Background(), "MSFT")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.hits())
}

func TestQuoteResolverService_Resolve_CacheExpiry(t *testing.T) {
	provider := &fakeProvider{
		name:       "finnhub",
		configured: true,
		quote:      &dto.Quote{Price: 200, Source: "finnhub"},
	}
	svc := newTestResolver(provider)

	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	svc.Resolve(context.Background(), "MSFT")

	// jump past the TTL, entry must be refreshed from the provider
	svc.now = func() time.Time { return base.Add(svc.ttl + time.Second) }
	svc.Resolve(context.Background(), "MSFT")

	assert.Equal(t, 2, provider.hits())
}

func TestQuoteResolverService_ResolveMany(t *testing.T) {
	provider := &fakeProvider{
		name:       "finnhub",
		configured: true,
		quote:      &dto.Quote{Price: 100, Source: "finnhub"},
	}
	svc := newTestResolver(provider)

	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}
	quotes := svc.ResolveMany(context.Background(), symbols)

	assert.Len(t, quotes, len(symbols))
	got := make(map[string]bool)
	for _, q := range quotes {
		got[q.Symbol] = true
		assert.Equal(t, 100.0, q.Price)
	}
	for _, symbol := range symbols {
		assert.True(t, got[symbol], "missing quote for %s", symbol)
	}
}

func TestQuoteResolverService_CompanyInfo_StaticFallback(t *testing.T) {
	svc := newTestResolver()

	info := svc.CompanyInfo(context.Background(), "AAPL")
	assert.Equal(t, "Apple Inc.", info.Name)
	assert.Equal(t, "Technology", info.Sector)

	unknown := svc.CompanyInfo(context.Background(), "ZZZZ")
	assert.Equal(t, "ZZZZ", unknown.Name)
	assert.Equal(t, "Unknown", unknown.Sector)
}

func TestQuoteResolverService_News(t *testing.T) {
	provider := &fakeProvider{
		name:       "finnhub",
		configured: true,
		news: []dto.NewsItem{
			{Headline: "Markets rally on earnings"},
		},
	}
	svc := newTestResolver(provider)

	items := svc.News(context.Background(), 10)
	assert.Len(t, items, 1)

	empty := newTestResolver()
	assert.Empty(t, empty.News(context.Background(), 10))
}
