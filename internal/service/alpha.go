package service

import (
	"context"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/logger"
	"alphadesk/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const (
	neutralScore = 5.0

	sentimentWeight  = 0.4
	volatilityWeight = 0.3
	momentumWeight   = 0.3

	// minimum history windows, below which a sub-score stays neutral
	minVolatilityPoints = 5
	minMomentumPoints   = 10
	historyWindow       = 20
	momentumHalfWindow  = 5

	alphaUpdateBatchSize  = 5
	alphaUpdateBatchDelay = time.Second
)

// AlphaService computes and persists alpha signatures. Compute never fails:
// any internal error degrades to the neutral signature so a dashboard refresh
// cannot error out on a single symbol.
type AlphaService interface {
	Compute(ctx context.Context, symbol string) *model.AlphaSignature
	UpdateAll(ctx context.Context, symbols []string)
	Latest(ctx context.Context, symbol string) (*model.AlphaSignature, error)
	History(ctx context.Context, symbol string, limit int) ([]model.AlphaSignature, error)
}

type alphaService struct {
	cfg           *config.Config
	log           *logger.Logger
	portfolioRepo repository.PortfolioRepository
}

func NewAlphaService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
) AlphaService {
	return &alphaService{
		cfg:           cfg,
		log:           log,
		portfolioRepo: portfolioRepo,
	}
}

func (s *alphaService) Compute(ctx context.Context, symbol string) *model.AlphaSignature {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	sentimentScore := s.sentimentScore(ctx, symbol)

	points, err := s.portfolioRepo.GetPriceHistory(ctx, symbol, historyWindow)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get price history, using neutral sub-scores",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		points = nil
	}

	volatilityScore := volatilityScoreFromHistory(points)
	momentumScore := momentumScoreFromHistory(points)

	alphaScore := utils.Round1(
		sentimentWeight*sentimentScore +
			volatilityWeight*volatilityScore +
			momentumWeight*momentumScore,
	)

	signature := &model.AlphaSignature{
		Symbol:          symbol,
		AlphaScore:      alphaScore,
		SentimentScore:  sentimentScore,
		VolatilityScore: volatilityScore,
		MomentumScore:   momentumScore,
		Signal:          MapAlphaSignal(alphaScore),
		Timestamp:       time.Now(),
	}

	if err := s.portfolioRepo.AppendAlphaSignature(ctx, signature); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist alpha signature",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
	}

	return signature
}

// UpdateAll refreshes signatures in batches of 5 with a 1s pause between
// batches. Per-symbol failures are absorbed, a bad symbol must not starve the
// rest of the watchlist.
func (s *alphaService) UpdateAll(ctx context.Context, symbols []string) {
	for start := 0; start < len(symbols); start += alphaUpdateBatchSize {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}

		end := start + alphaUpdateBatchSize
		if end > len(symbols) {
			end = len(symbols)
		}

		g, gCtx := errgroup.WithContext(ctx)
		for _, symbol := range symbols[start:end] {
			symbol := symbol
			g.Go(func() error {
				signature := s.Compute(gCtx, symbol)
				s.log.DebugContext(gCtx, "Alpha signature refreshed",
					logger.StringField("symbol", symbol),
					logger.Float64Field("alpha_score", signature.AlphaScore),
					logger.StringField("signal", signature.Signal),
				)
				return nil
			})
		}
		_ = g.Wait()

		if end < len(symbols) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(alphaUpdateBatchDelay):
			}
		}
	}
}

func (s *alphaService) Latest(ctx context.Context, symbol string) (*model.AlphaSignature, error) {
	return s.portfolioRepo.GetLatestAlphaSignature(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

func (s *alphaService) History(ctx context.Context, symbol string, limit int) ([]model.AlphaSignature, error) {
	return s.portfolioRepo.GetAlphaHistory(ctx, strings.ToUpper(strings.TrimSpace(symbol)), limit)
}

func (s *alphaService) sentimentScore(ctx context.Context, symbol string) float64 {
	record, err := s.portfolioRepo.GetLatestSentiment(ctx, symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get latest sentiment, using neutral",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return neutralScore
	}
	if record == nil {
		return neutralScore
	}
	return utils.Clamp(record.Score, 0, 10)
}

// volatilityScoreFromHistory converts the population standard deviation of
// period-over-period returns (as a percentage) into a 0-10 score. Lower
// volatility means a higher score.
func volatilityScoreFromHistory(points []model.PriceHistoryPoint) float64 {
	if len(points) < minVolatilityPoints {
		return neutralScore
	}

	// points arrive most recent first, returns need chronological order
	prices := make([]float64, len(points))
	for i, p := range points {
		prices[len(points)-1-i] = p.Price
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	if len(returns) == 0 {
		return neutralScore
	}

	v := utils.StdDev(returns) * 100
	return utils.Clamp(10-v*2, 0, 10)
}

// momentumScoreFromHistory compares the mean of the most recent 5 points to
// the mean of the prior 5 and scales the percent difference.
func momentumScoreFromHistory(points []model.PriceHistoryPoint) float64 {
	if len(points) < minMomentumPoints {
		return neutralScore
	}

	recent := make([]float64, 0, momentumHalfWindow)
	prior := make([]float64, 0, momentumHalfWindow)
	for i := 0; i < momentumHalfWindow; i++ {
		recent = append(recent, points[i].Price)
		prior = append(prior, points[i+momentumHalfWindow].Price)
	}

	m := utils.PercentChange(utils.Mean(prior), utils.Mean(recent))
	return utils.Clamp(5+m*2, 0, 10)
}

// MapAlphaSignal maps a composite score to its discrete signal. The bands
// mirror the historical cascade exactly, including the uncovered [6,7) range
// that falls through to strong_sell.
func MapAlphaSignal(alphaScore float64) string {
	switch {
	case alphaScore >= 8.5:
		return dto.SignalStrongBuy
	case alphaScore >= 7:
		return dto.SignalBuy
	case alphaScore >= 4 && alphaScore <= 6:
		return dto.SignalHold
	case alphaScore >= 2.5 && alphaScore < 4:
		return dto.SignalSell
	default:
		return dto.SignalStrongSell
	}
}
