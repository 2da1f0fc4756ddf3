package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/models"
)

// GenerateRecipeRequest carries the caller's generation preferences.
type GenerateRecipeRequest struct {
	Ingredients         []string
	DietaryRestrictions []string
	CuisineType         string
	Difficulty          string
}

// LLMService generates recipes through a hosted chat-completions API. Every
// invocation goes through InvokeWithRetry, which validates arguments,
// classifies transport failures and retries the transient ones with
// exponential backoff.
type LLMService struct {
	client *resty.Client
	cfg    config.LLMConfig
	logger *zap.Logger
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg config.LLMConfig, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("LLM_API_URL must be set")
	}

	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &LLMService{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest is the chat-completions request body.
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// GenerateRecipe builds a prompt from the request, invokes the model with
// retry and parses the completion into a validated Recipe. It composes the
// invoker and parser without adding failure modes of its own.
func (s *LLMService) GenerateRecipe(ctx context.Context, req *GenerateRecipeRequest) (*models.Recipe, error) {
	if len(req.Ingredients) == 0 {
		return nil, newError(KindInvalidArgument, "at least one ingredient is required")
	}

	prompt := s.buildPrompt(req)

	completion, err := s.InvokeWithRetry(ctx, prompt, s.cfg.MaxTokens, s.cfg.Temperature, s.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return ParseRecipeResponse(completion)
}

// InvokeWithRetry calls the model, retrying transient failures (timeouts,
// connection problems, rate limits) with pure exponential backoff:
// initialRetryDelay * 2^attempt, no jitter. maxRetries is the number of
// additional attempts after the first. Argument validation applies on every
// attempt and is never retried; the last classified error is always
// surfaced once the budget is exhausted.
func (s *LLMService) InvokeWithRetry(ctx context.Context, prompt string, maxTokens int, temperature float64, timeout time.Duration) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		completion, err := s.invokeModel(ctx, prompt, maxTokens, temperature, timeout)
		if err == nil {
			return completion, nil
		}
		lastErr = err

		kind := KindOf(err)
		if !kind.Retryable() || attempt >= s.cfg.MaxRetries {
			return "", err
		}

		delay := s.cfg.InitialRetryDelay * time.Duration(1<<uint(attempt))
		s.logger.Warn("retrying model invocation",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", s.cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", lastErr
		}
	}

	return "", lastErr
}

// invokeModel performs a single model call with argument validation and
// keyword-based failure classification.
func (s *LLMService) invokeModel(ctx context.Context, prompt string, maxTokens int, temperature float64, timeout time.Duration) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", newError(KindInvalidArgument, "prompt cannot be empty")
	}
	if temperature < 0 || temperature > 1 {
		return "", newError(KindInvalidArgument, "temperature must be between 0 and 1, got %v", temperature)
	}
	if maxTokens < 1 {
		return "", newError(KindInvalidArgument, "max_tokens must be positive, got %d", maxTokens)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqBody := completionRequest{
		Model: s.cfg.Model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := s.client.R().
		SetContext(attemptCtx).
		SetBody(reqBody).
		Post(s.cfg.APIURL)
	if err != nil {
		return "", classifyInvocationError(err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", classifyInvocationError(statusError(resp.StatusCode(), resp.String()))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", wrapError(KindInvocation, err, "failed to decode model response")
	}
	if len(result.Choices) == 0 {
		return "", newError(KindInvocation, "no choices in model response")
	}

	return result.Choices[0].Message.Content, nil
}

// statusError turns a non-200 response into an error whose message the
// keyword classifier understands.
func statusError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("authentication failed with status %d: %s", status, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded with status %d: %s", status, body)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("request timed out with status %d: %s", status, body)
	default:
		return fmt.Errorf("API request failed with status %d: %s", status, body)
	}
}

// buildPrompt embeds the ingredients and preferences into an instruction
// that demands pure JSON output matching the recipe schema.
func (s *LLMService) buildPrompt(req *GenerateRecipeRequest) string {
	parts := []string{
		"You are a professional chef assistant. Generate a detailed, creative recipe based on the following requirements:\n",
		fmt.Sprintf("Available Ingredients: %s", strings.Join(req.Ingredients, ", ")),
	}

	if len(req.DietaryRestrictions) > 0 {
		parts = append(parts, fmt.Sprintf("Dietary Restrictions: %s", strings.Join(req.DietaryRestrictions, ", ")))
	}
	if req.CuisineType != "" {
		parts = append(parts, fmt.Sprintf("Cuisine Type: %s", req.CuisineType))
	}
	if req.Difficulty != "" {
		parts = append(parts, fmt.Sprintf("Difficulty Level: %s", req.Difficulty))
	}

	parts = append(parts,
		"\nIMPORTANT INSTRUCTIONS:",
		"- Create a recipe that primarily uses the provided ingredients",
		"- Respect all dietary restrictions strictly",
		"- Provide clear, step-by-step instructions",
		"- Include realistic cooking times and serving sizes",
		"- Return ONLY valid JSON with no additional text or explanation\n",
		"Required JSON format:",
		"{",
		`  "title": "Creative Recipe Name",`,
		`  "description": "Brief, appetizing description (2-3 sentences)",`,
		`  "ingredients": [`,
		`    {"name": "ingredient name", "quantity": "amount", "unit": "measurement unit or null"}`,
		`  ],`,
		`  "instructions": [`,
		`    "Step 1: Detailed instruction",`,
		`    "Step 2: Detailed instruction"`,
		`  ],`,
		`  "cooking_time_minutes": 30,`,
		`  "servings": 4,`,
		`  "difficulty": "easy",`,
		`  "cuisine_type": "cuisine style",`,
		`  "dietary_tags": ["vegetarian", "gluten-free"]`,
		"}",
	)

	return strings.Join(parts, "\n")
}
