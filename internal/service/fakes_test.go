package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/pkg/logger"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			QuoteTTL:        5 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Scheduler: config.Scheduler{
			RefreshCron:    "*/15 * * * *",
			MaxConcurrency: 4,
			Timeout:        time.Minute,
		},
		Resolver: config.Resolver{
			ProviderTimeout: 2 * time.Second,
			BatchSize:       5,
			BatchDelay:      time.Millisecond,
		},
	}
}

func newTestLogger() *logger.Logger {
	log, err := logger.New("error", "console")
	if err != nil {
		panic(err)
	}
	return log
}

type fakeProvider struct {
	name       string
	configured bool
	quote      *dto.Quote
	quoteErr   error
	info       *dto.CompanyInfo
	infoErr    error
	news       []dto.NewsItem
	newsErr    error

	mu        sync.Mutex
	quoteHits int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) GetQuote(ctx context.Context, param dto.GetQuoteParam) (*dto.Quote, error) {
	f.mu.Lock()
	f.quoteHits++
	f.mu.Unlock()
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	if f.quote == nil {
		return nil, nil
	}
	q := *f.quote
	q.Symbol = param.Symbol
	q.AssetType = param.AssetType
	return &q, nil
}

func (f *fakeProvider) GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeProvider) GetNews(ctx context.Context, limit int) ([]dto.NewsItem, error) {
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return f.news, nil
}

func (f *fakeProvider) hits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quoteHits
}

type fakeLLMRepo struct {
	configured bool
	response   string
	err        error
}

func (f *fakeLLMRepo) Configured() bool { return f.configured }

func (f *fakeLLMRepo) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, dest interface{}) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.response), dest)
}

type fakePortfolioRepo struct {
	mu sync.Mutex

	holdings    []model.Holding
	holdingsErr error

	pricePoints map[string][]model.PriceHistoryPoint

	sentiments []model.SentimentRecord

	signatures []model.AlphaSignature
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{pricePoints: make(map[string][]model.PriceHistoryPoint)}
}

func (f *fakePortfolioRepo) GetHoldings(ctx context.Context, userID uint) ([]model.Holding, error) {
	if f.holdingsErr != nil {
		return nil, f.holdingsErr
	}
	var out []model.Holding
	for _, h := range f.holdings {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakePortfolioRepo) CreateHolding(ctx context.Context, holding *model.Holding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	holding.ID = uint(len(f.holdings) + 1)
	f.holdings = append(f.holdings, *holding)
	return nil
}

func (f *fakePortfolioRepo) DeleteHolding(ctx context.Context, userID uint, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, h := range f.holdings {
		if h.UserID == userID && h.Symbol == symbol {
			f.holdings = append(f.holdings[:i], f.holdings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePortfolioRepo) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]model.PriceHistoryPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	points := f.pricePoints[symbol]
	// stored newest-first like the real repository returns them
	if len(points) > limit {
		points = points[:limit]
	}
	return points, nil
}

func (f *fakePortfolioRepo) AppendPricePoint(ctx context.Context, point *model.PriceHistoryPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pricePoints[point.Symbol] = append([]model.PriceHistoryPoint{*point}, f.pricePoints[point.Symbol]...)
	return nil
}

func (f *fakePortfolioRepo) GetLatestSentiment(ctx context.Context, symbol string) (*model.SentimentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.SentimentRecord
	for i := range f.sentiments {
		rec := &f.sentiments[i]
		if rec.Symbol != symbol {
			continue
		}
		if latest == nil || rec.Timestamp.After(latest.Timestamp) ||
			(rec.Timestamp.Equal(latest.Timestamp) && rec.ID > latest.ID) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

func (f *fakePortfolioRepo) GetRecentSentiments(ctx context.Context, limit int) ([]model.SentimentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]model.SentimentRecord(nil), f.sentiments...)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakePortfolioRepo) AppendSentiment(ctx context.Context, record *model.SentimentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.ID = uint(len(f.sentiments) + 1)
	f.sentiments = append(f.sentiments, *record)
	return nil
}

func (f *fakePortfolioRepo) AppendAlphaSignature(ctx context.Context, signature *model.AlphaSignature) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	signature.ID = uint(len(f.signatures) + 1)
	f.signatures = append(f.signatures, *signature)
	return nil
}

func (f *fakePortfolioRepo) GetLatestAlphaSignature(ctx context.Context, symbol string) (*model.AlphaSignature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.signatures) - 1; i >= 0; i-- {
		if f.signatures[i].Symbol == symbol {
			out := f.signatures[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakePortfolioRepo) GetAlphaHistory(ctx context.Context, symbol string, limit int) ([]model.AlphaSignature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AlphaSignature
	for i := len(f.signatures) - 1; i >= 0 && len(out) < limit; i-- {
		if f.signatures[i].Symbol == symbol {
			out = append(out, f.signatures[i])
		}
	}
	return out, nil
}

type fakeBiasReportRepo struct {
	records []model.BiasReportRecord
}

func (f *fakeBiasReportRepo) Append(ctx context.Context, record *model.BiasReportRecord) error {
	record.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeBiasReportRepo) GetLatestByUser(ctx context.Context, userID uint) (*model.BiasReportRecord, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			out := f.records[i]
			return &out, nil
		}
	}
	return nil, nil
}

type fakeTransactionRepo struct {
	transactions []model.Transaction
	err          error
}

func (f *fakeTransactionRepo) GetByUser(ctx context.Context, userID uint) ([]model.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Transaction
	for _, t := range f.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) Create(ctx context.Context, transaction *model.Transaction) error {
	transaction.ID = uint(len(f.transactions) + 1)
	f.transactions = append(f.transactions, *transaction)
	return nil
}

type fakeWatchlistRepo struct {
	items []model.WatchlistItem
}

func (f *fakeWatchlistRepo) Add(ctx context.Context, item *model.WatchlistItem) error {
	item.ID = uint(len(f.items) + 1)
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeWatchlistRepo) Remove(ctx context.Context, userID uint, symbol string) error {
	for i, item := range f.items {
		if item.UserID == userID && item.Symbol == symbol {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeWatchlistRepo) ListByUser(ctx context.Context, userID uint) ([]model.WatchlistItem, error) {
	var out []model.WatchlistItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeWatchlistRepo) DistinctSymbols(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range f.items {
		if _, ok := seen[item.Symbol]; ok {
			continue
		}
		seen[item.Symbol] = struct{}{}
		out = append(out, item.Symbol)
	}
	return out, nil
}
