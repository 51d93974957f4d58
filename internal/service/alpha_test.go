package service

import (
	"context"
	"testing"
	"time"

	"alphadesk/internal/dto"
	"alphadesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pricePoints builds history points newest-first from chronological prices,
// matching the order the repository returns.
func pricePoints(chronological ...float64) []model.PriceHistoryPoint {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	points := make([]model.PriceHistoryPoint, len(chronological))
	for i, price := range chronological {
		points[len(chronological)-1-i] = model.PriceHistoryPoint{
			Price:     price,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return points
}

func TestMapAlphaSignal(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 9.5, want: dto.SignalStrongBuy},
		{score: 8.5, want: dto.SignalStrongBuy},
		{score: 8.4, want: dto.SignalBuy},
		{score: 7.0, want: dto.SignalBuy},
		{score: 6.0, want: dto.SignalHold},
		{score: 5.0, want: dto.SignalHold},
		{score: 4.0, want: dto.SignalHold},
		{score: 3.9, want: dto.SignalSell},
		{score: 2.5, want: dto.SignalSell},
		{score: 2.4, want: dto.SignalStrongSell},
		{score: 0, want: dto.SignalStrongSell},
		// the cascade leaves [6,7) uncovered, those scores fall through
		{score: 6.2, want: dto.SignalStrongSell},
		{score: 6.9, want: dto.SignalStrongSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapAlphaSignal(tt.score), "score %.1f", tt.score)
	}
}

func TestVolatilityScoreFromHistory(t *testing.T) {
	t.Run("too few points is neutral", func(t *testing.T) {
		assert.Equal(t, 5.0, volatilityScoreFromHistory(nil))
		assert.Equal(t, 5.0, volatilityScoreFromHistory(pricePoints(100, 101, 102, 103)))
	})

	t.Run("flat prices score a perfect 10", func(t *testing.T) {
		assert.Equal(t, 10.0, volatilityScoreFromHistory(pricePoints(100, 100, 100, 100, 100, 100)))
	})

	t.Run("wild swings clamp to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, volatilityScoreFromHistory(pricePoints(100, 150, 100, 150, 100, 150)))
	})

	t.Run("mild volatility lands in between", func(t *testing.T) {
		score := volatilityScoreFromHistory(pricePoints(100, 101, 100, 102, 101, 103))
		assert.Greater(t, score, 5.0)
		assert.Less(t, score, 10.0)
	})
}

func TestMomentumScoreFromHistory(t *testing.T) {
	t.Run("too few points is neutral", func(t *testing.T) {
		assert.Equal(t, 5.0, momentumScoreFromHistory(nil))
		assert.Equal(t, 5.0, momentumScoreFromHistory(pricePoints(100, 101, 102, 103, 104, 105, 106, 107, 108)))
	})

	t.Run("flat prices are neutral", func(t *testing.T) {
		assert.Equal(t, 5.0, momentumScoreFromHistory(pricePoints(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)))
	})

	t.Run("strong uptrend clamps to 10", func(t *testing.T) {
		assert.Equal(t, 10.0, momentumScoreFromHistory(pricePoints(100, 100, 100, 100, 100, 110, 110, 110, 110, 110)))
	})

	t.Run("strong downtrend clamps to 0", func(t *testing.T) {
		assert.Equal(t, 0.0, momentumScoreFromHistory(pricePoints(100, 100, 100, 100, 100, 90, 90, 90, 90, 90)))
	})

	t.Run("mild uptrend", func(t *testing.T) {
		// recent mean 101, prior mean 100, +1% -> 5 + 2 = 7
		score := momentumScoreFromHistory(pricePoints(100, 100, 100, 100, 100, 101, 101, 101, 101, 101))
		assert.InDelta(t, 7.0, score, 0.001)
	})
}

func TestAlphaService_Compute_NoData(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewAlphaService(newTestConfig(), newTestLogger(), repo)

	signature := svc.Compute(context.Background(), "aapl")

	assert.Equal(t, "AAPL", signature.Symbol)
	assert.Equal(t, 5.0, signature.SentimentScore)
	assert.Equal(t, 5.0, signature.VolatilityScore)
	assert.Equal(t, 5.0, signature.MomentumScore)
	assert.Equal(t, 5.0, signature.AlphaScore)
	assert.Equal(t, dto.SignalHold, signature.Signal)

	// the signature must be persisted
	latest, err := repo.GetLatestAlphaSignature(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, signature.AlphaScore, latest.AlphaScore)
}

func TestAlphaService_Compute_BlendsSubScores(t *testing.T) {
	repo := newFakePortfolioRepo()
	for _, p := range pricePoints(100, 100, 100, 100, 100, 100, 100, 100, 100, 100) {
		point := p
		point.Symbol = "MSFT"
		require.NoError(t, repo.AppendPricePoint(context.Background(), &point))
	}
	require.NoError(t, repo.AppendSentiment(context.Background(), &model.SentimentRecord{
		Symbol:    "MSFT",
		Sentiment: dto.SentimentPositive,
		Score:     8,
		Timestamp: time.Now(),
	}))

	svc := NewAlphaService(newTestConfig(), newTestLogger(), repo)
	signature := svc.Compute(context.Background(), "MSFT")

	// 0.4*8 + 0.3*10 + 0.3*5 = 7.7
	assert.Equal(t, 8.0, signature.SentimentScore)
	assert.Equal(t, 10.0, signature.VolatilityScore)
	assert.Equal(t, 5.0, signature.MomentumScore)
	assert.Equal(t, 7.7, signature.AlphaScore)
	assert.Equal(t, dto.SignalBuy, signature.Signal)
}

func TestAlphaService_UpdateAll(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewAlphaService(newTestConfig(), newTestLogger(), repo)

	symbols := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META"}
	svc.UpdateAll(context.Background(), symbols)

	for _, symbol := range symbols {
		latest, err := repo.GetLatestAlphaSignature(context.Background(), symbol)
		require.NoError(t, err)
		require.NotNil(t, latest, "missing signature for %s", symbol)
	}
}

func TestAlphaService_History(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewAlphaService(newTestConfig(), newTestLogger(), repo)

	for i := 0; i < 3; i++ {
		svc.Compute(context.Background(), "AAPL")
	}

	history, err := svc.History(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
