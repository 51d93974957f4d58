package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dto"
	"alphadesk/pkg/httpclient"
	"alphadesk/pkg/logger"
	"alphadesk/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// LLMRepository is the single LLM call surface shared by sentiment scoring and
// bias narrative generation. CompleteJSON demands strict JSON and fails on
// anything else; callers substitute their rule-based fallback on error.
type LLMRepository interface {
	Configured() bool
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, dest interface{}) error
}

// geminiAIRepository implements LLMRepository on the Google Gemini API.
type geminiAIRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository. A
// missing API key is not an error: the repository reports itself unconfigured
// and every caller takes its heuristic path.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (LLMRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	repo := &geminiAIRepository{
		httpClient:     httpclient.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}

	if cfg.Gemini.APIKey != "" {
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		repo.genAiClient = genAiClient
	}

	return repo, nil
}

func (r *geminiAIRepository) Configured() bool {
	return r.cfg.Gemini.APIKey != ""
}

func (r *geminiAIRepository) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, dest interface{}) error {
	if !r.Configured() {
		return fmt.Errorf("gemini api key not configured")
	}

	geminiAPIResponse, err := r.sendRequest(ctx, systemPrompt, userPrompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to send request to gemini", logger.ErrorField(err))
		return fmt.Errorf("failed to send request to gemini: %w", err)
	}

	if err := r.parseResponse(geminiAPIResponse, dest); err != nil {
		r.logger.ErrorContext(ctx, "failed to parse response from gemini", logger.ErrorField(err))
		return fmt.Errorf("failed to parse response from gemini: %w", err)
	}

	return nil
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, systemPrompt, userPrompt string) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token gemini limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request gemini limit: %w", err)
	}

	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: userPrompt}}}},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &dto.Content{Parts: []dto.Part{{Text: systemPrompt}}}
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.Gemini.BaseModel, r.cfg.Gemini.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	if geminiResp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "failed to get data from gemini", logger.IntField("status_code", geminiResp.StatusCode))
		return nil, fmt.Errorf("failed to get data: %v", string(geminiResp.Body))
	}

	return &geminiAPIResponse, nil
}

func (r *geminiAIRepository) parseResponse(response *dto.GeminiAPIResponse, dest interface{}) error {
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("invalid response from Gemini API: no content found")
	}

	jsonString := response.Candidates[0].Content.Parts[0].Text
	jsonString = strings.Trim(jsonString, "`json\n`")

	return json.Unmarshal([]byte(jsonString), dest)
}
