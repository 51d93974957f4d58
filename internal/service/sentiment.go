package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/internal/model"
	"alphadesk/internal/repository"
	"alphadesk/pkg/logger"
	"alphadesk/pkg/utils"
)

// SentimentService scores free text into the {sentiment, score, confidence}
// triple. Score always lands in [0,10] and confidence in [0,1], whatever the
// LLM returns or fails to return.
type SentimentService interface {
	Score(ctx context.Context, text, symbol string) dto.SentimentScore
	ScoreAndRecord(ctx context.Context, text, symbol string) (*model.SentimentRecord, error)
}

type sentimentService struct {
	cfg           *config.Config
	log           *logger.Logger
	llmRepo       repository.LLMRepository
	portfolioRepo repository.PortfolioRepository
}

func NewSentimentService(
	cfg *config.Config,
	log *logger.Logger,
	llmRepo repository.LLMRepository,
	portfolioRepo repository.PortfolioRepository,
) SentimentService {
	return &sentimentService{
		cfg:           cfg,
		log:           log,
		llmRepo:       llmRepo,
		portfolioRepo: portfolioRepo,
	}
}

const sentimentSystemPrompt = `You are a financial sentiment analyst. Respond with strict JSON only, no markdown fences, no prose. The JSON object must have exactly these fields: "sentiment" (one of "positive", "negative", "neutral"), "score" (number 0-10 where 0 is extremely negative and 10 is extremely positive), "confidence" (number 0-1).`

func (s *sentimentService) Score(ctx context.Context, text, symbol string) dto.SentimentScore {
	if !s.llmRepo.Configured() {
		return s.keywordScore(text)
	}

	prompt := fmt.Sprintf("Analyze the sentiment of the following financial text about %s:\n\n%s", symbolOrMarket(symbol), text)

	var result dto.SentimentScore
	if err := s.llmRepo.CompleteJSON(ctx, sentimentSystemPrompt, prompt, &result); err != nil {
		s.log.WarnContext(ctx, "LLM sentiment call failed, using keyword fallback",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return s.keywordScore(text)
	}

	result.Score = utils.Clamp(result.Score, 0, 10)
	result.Confidence = utils.Clamp(result.Confidence, 0, 1)
	switch result.Sentiment {
	case dto.SentimentPositive, dto.SentimentNegative, dto.SentimentNeutral:
	default:
		result.Sentiment = dto.SentimentNeutral
	}

	return result
}

func (s *sentimentService) ScoreAndRecord(ctx context.Context, text, symbol string) (*model.SentimentRecord, error) {
	score := s.Score(ctx, text, symbol)

	record := &model.SentimentRecord{
		Symbol:     strings.ToUpper(strings.TrimSpace(symbol)),
		Sentiment:  score.Sentiment,
		Score:      score.Score,
		Confidence: score.Confidence,
		SourceText: text,
		Timestamp:  time.Now(),
	}

	if err := s.portfolioRepo.AppendSentiment(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record sentiment: %w", err)
	}

	return record, nil
}

var positiveWords = []string{
	"bullish", "surge", "surged", "gain", "gains", "growth", "profit",
	"beat", "beats", "upgrade", "upgraded", "rally", "record", "strong",
	"soar", "soared", "jump", "jumped", "optimistic", "outperform",
}

var negativeWords = []string{
	"bearish", "drop", "dropped", "loss", "losses", "decline", "declined",
	"miss", "missed", "downgrade", "downgraded", "crash", "weak", "fall",
	"fell", "plunge", "plunged", "fear", "recession", "lawsuit", "underperform",
}

// keywordScore is the deterministic-ish fallback scorer: word-list counting
// with a pseudo-random confidence in [0.7, 0.9].
func (s *sentimentService) keywordScore(text string) dto.SentimentScore {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var positive, negative int
	for _, w := range words {
		if utils.ContainsString(positiveWords, w) {
			positive++
		}
		if utils.ContainsString(negativeWords, w) {
			negative++
		}
	}

	confidence := 0.7 + rand.Float64()*0.2

	switch {
	case positive > negative:
		matches := positive
		if matches > 4 {
			matches = 4
		}
		return dto.SentimentScore{
			Sentiment:  dto.SentimentPositive,
			Score:      float64(6 + matches),
			Confidence: confidence,
		}
	case negative > positive:
		matches := negative
		if matches > 4 {
			matches = 4
		}
		return dto.SentimentScore{
			Sentiment:  dto.SentimentNegative,
			Score:      float64(4 - matches),
			Confidence: confidence,
		}
	default:
		return dto.SentimentScore{
			Sentiment:  dto.SentimentNeutral,
			Score:      5,
			Confidence: confidence,
		}
	}
}

func symbolOrMarket(symbol string) string {
	if symbol == "" {
		return "the market"
	}
	return symbol
}
