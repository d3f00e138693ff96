package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"contentpilot/config"
	"contentpilot/internal/dto"
	"contentpilot/pkg/httpclient"
	"contentpilot/pkg/logger"
	"contentpilot/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// AIRepository is the adapter around the generation models. Only the
// success/failure outcome of a call matters to the accounting core.
type AIRepository interface {
	GenerateArticle(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error)
	GenerateOutline(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error)
	GenerateImage(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error)
}

type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	httpClient     httpclient.HTTPClient
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates the Gemini-backed adapter. Text generations
// go through the genai SDK, image generations through the prediction HTTP
// API; both share the per-minute request and token budgets.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		httpClient:     httpclient.New(cfg.Gemini.ImageBaseURL, cfg.Gemini.Timeout, ""),
		tokenLimiter:   tokenLimiter,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) GenerateArticle(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	return r.generateText(ctx, promptArticle(req))
}

func (r *geminiAIRepository) GenerateOutline(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	return r.generateText(ctx, promptOutline(req))
}

func (r *geminiAIRepository) generateText(ctx context.Context, prompt string) (*dto.AIGenerationResult, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	tokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.TextModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.TextModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gemini: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("invalid response from Gemini API: no content found")
	}

	result := &dto.AIGenerationResult{
		Content: text,
		Model:   r.cfg.Gemini.TextModel,
	}
	if resp.UsageMetadata != nil {
		result.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}

func (r *geminiAIRepository) GenerateImage(ctx context.Context, req dto.GenerateRequest) (*dto.AIGenerationResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for gemini request limit: %w", err)
	}

	payload := map[string]interface{}{
		"instances": []map[string]string{
			{"prompt": promptImage(req)},
		},
		"parameters": map[string]interface{}{
			"sampleCount": 1,
		},
	}

	apiURL := fmt.Sprintf("/%s:predict?key=%s", r.cfg.Gemini.ImageModel, r.cfg.Gemini.APIKey)

	imageResp := dto.ImageAPIResponse{}
	resp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &imageResp)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to image api: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "failed to get data from image api", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("image api returned status %d", resp.StatusCode)
	}

	if len(imageResp.Predictions) == 0 {
		return nil, fmt.Errorf("invalid response from image api: no predictions")
	}

	return &dto.AIGenerationResult{
		ImageURL: imageResp.Predictions[0].URL,
		Model:    r.cfg.Gemini.ImageModel,
	}, nil
}
