package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rmontano/testbank/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GeminiLLMService issues one prompt per extraction job and returns the raw
// response text. No streaming, no multi-turn conversation, no automatic
// retry: a failed call surfaces immediately as the job's failure reason and
// retrying is a user-triggered action.
type GeminiLLMService interface {
	GenerateQuestions(ctx context.Context, prompt string, temperature float32) (string, error)
}

type geminiLLMService struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{modelName: cfg.GeminiModel, timeout: time.Duration(cfg.AITimeoutSec) * time.Second}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{
		client:    client,
		modelName: cfg.GeminiModel,
		timeout:   time.Duration(cfg.AITimeoutSec) * time.Second,
	}, nil
}

func (s *geminiLLMService) GenerateQuestions(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized (missing API key)")
	}

	// A fresh model handle per call keeps the temperature setting local to
	// this job; jobs from different requests run concurrently.
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("Gemini API error")
		return "", fmt.Errorf("AI extraction failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", fmt.Errorf("gemini returned no content")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}

	log.Info().Dur("elapsed", time.Since(started)).Int("response_chars", len(text)).Msg("Gemini call completed")
	return text, nil
}
