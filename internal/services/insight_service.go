package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	applog "autopecas/internal/log"
)

const (
	FallbackDescription  = "No description available."
	FailedDescription    = "Failed to generate a smart description."
	FallbackInsights     = "Analysis unavailable."
	FailedInsights       = "An error occurred while processing the insights."
	defaultProductModel  = "gemini-3-flash-preview"
	defaultInsightsModel = "gemini-3-pro-preview"
	maxDescriptionLength = 200
)

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// InsightService writes marketing copy and sales tips. It never fails: any
// problem turns into a fallback string.
type InsightService struct {
	gen           TextGenerator
	productModel  string
	insightsModel string
}

// NewInsightService accepts a nil generator, in which case only fallbacks are returned.
func NewInsightService(gen TextGenerator, productModel, insightsModel string) *InsightService {
	if productModel == "" {
		productModel = defaultProductModel
	}
	if insightsModel == "" {
		insightsModel = defaultInsightsModel
	}
	return &InsightService{gen: gen, productModel: productModel, insightsModel: insightsModel}
}

func (s *InsightService) DescribeProduct(ctx context.Context, name, category, brand string) string {
	if s.gen == nil {
		return FallbackDescription
	}
	prompt := fmt.Sprintf(
		"Write a professional, technical sales description for a car part called %q from the brand %q in the category %q. Use at most %d characters.",
		name, brand, category, maxDescriptionLength)
	text, err := s.gen.Generate(ctx, s.productModel, prompt)
	if err != nil {
		applog.Warn(nil, "insight.describe_failed", err, map[string]any{"product": name})
		return FailedDescription
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackDescription
	}
	return text
}

// StoreInsights asks for three quick tips based on salesData.
func (s *InsightService) StoreInsights(ctx context.Context, salesData any) string {
	if s.gen == nil {
		return FallbackInsights
	}
	raw, err := json.Marshal(salesData)
	if err != nil {
		applog.Warn(nil, "insight.encode_failed", err, nil)
		return FailedInsights
	}
	prompt := "Analyze this sales data and give 3 quick tips to improve the business: " + string(raw)
	text, err := s.gen.Generate(ctx, s.insightsModel, prompt)
	if err != nil {
		applog.Warn(nil, "insight.store_failed", err, nil)
		return FailedInsights
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackInsights
	}
	return text
}
