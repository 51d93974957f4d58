package service

import (
	"context"
	"errors"
	"testing"

	"alphadesk/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentimentService_Score_KeywordFallback(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantSentiment string
		wantScore     float64
	}{
		{
			name:          "single positive word",
			text:          "Shares surge after strong quarter",
			wantSentiment: dto.SentimentPositive,
			wantScore:     8, // surge + strong
		},
		{
			name:          "many positive words capped at 4",
			text:          "bullish surge gains rally record strong soar jump optimistic",
			wantSentiment: dto.SentimentPositive,
			wantScore:     10,
		},
		{
			name:          "single negative word",
			text:          "Stock dropped on weak guidance",
			wantSentiment: dto.SentimentNegative,
			wantScore:     2, // dropped + weak
		},
		{
			name:          "many negative words capped at 4",
			text:          "bearish crash plunge recession lawsuit fear decline loss",
			wantSentiment: dto.SentimentNegative,
			wantScore:     0,
		},
		{
			name:          "neutral text",
			text:          "The company reported quarterly results today",
			wantSentiment: dto.SentimentNeutral,
			wantScore:     5,
		},
		{
			name:          "tie is neutral",
			text:          "gains offset by losses",
			wantSentiment: dto.SentimentNeutral,
			wantScore:     5,
		},
	}

	svc := NewSentimentService(newTestConfig(), newTestLogger(), &fakeLLMRepo{configured: false}, newFakePortfolioRepo())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := svc.Score(context.Background(), tt.text, "AAPL")
			assert.Equal(t, tt.wantSentiment, score.Sentiment)
			assert.Equal(t, tt.wantScore, score.Score)
			assert.GreaterOrEqual(t, score.Confidence, 0.7)
			assert.LessOrEqual(t, score.Confidence, 0.9)
		})
	}
}

func TestSentimentService_Score_LLM(t *testing.T) {
	llm := &fakeLLMRepo{
		configured: true,
		response:   `{"sentiment":"positive","score":8.5,"confidence":0.92}`,
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(), llm, newFakePortfolioRepo())

	score := svc.Score(context.Background(), "Company beats expectations", "AAPL")
	assert.Equal(t, dto.SentimentPositive, score.Sentiment)
	assert.Equal(t, 8.5, score.Score)
	assert.Equal(t, 0.92, score.Confidence)
}

func TestSentimentService_Score_LLMClampsOutOfRange(t *testing.T) {
	llm := &fakeLLMRepo{
		configured: true,
		response:   `{"sentiment":"great","score":15,"confidence":1.4}`,
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(), llm, newFakePortfolioRepo())

	score := svc.Score(context.Background(), "some text", "")
	assert.Equal(t, dto.SentimentNeutral, score.Sentiment)
	assert.Equal(t, 10.0, score.Score)
	assert.Equal(t, 1.0, score.Confidence)
}

func TestSentimentService_Score_LLMErrorFallsBack(t *testing.T) {
	llm := &fakeLLMRepo{
		configured: true,
		err:        errors.New("rate limited"),
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(), llm, newFakePortfolioRepo())

	score := svc.Score(context.Background(), "Shares rally on upgrade", "AAPL")
	assert.Equal(t, dto.SentimentPositive, score.Sentiment)
	assert.Equal(t, 8.0, score.Score) // rally + upgrade
}

func TestSentimentService_ScoreAndRecord(t *testing.T) {
	repo := newFakePortfolioRepo()
	svc := NewSentimentService(newTestConfig(), newTestLogger(), &fakeLLMRepo{configured: false}, repo)

	record, err := svc.ScoreAndRecord(context.Background(), "Stock surged today", "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", record.Symbol)
	assert.Equal(t, dto.SentimentPositive, record.Sentiment)
	assert.Equal(t, "Stock surged today", record.SourceText)
	assert.False(t, record.Timestamp.IsZero())

	latest, err := repo.GetLatestSentiment(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, record.Score, latest.Score)
}
