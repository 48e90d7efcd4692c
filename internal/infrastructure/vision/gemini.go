package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// GeminiProvider analyzes meal photos through the Gemini API. The underlying
// client is created on first use and reused for the life of the provider.
type GeminiProvider struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiProvider creates a Gemini vision adapter
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Close releases the underlying client, if one was created
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.initOnce.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("gemini: create client: %w", p.initErr)
	}
	return p.client, nil
}

// Analyze sends the photo inline and parses the strict-JSON reply
func (p *GeminiProvider) Analyze(ctx context.Context, imageData string) (*domain.NutritionAnalysis, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	imgBytes, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("gemini: bad base64 image: %w", err)
	}

	cl, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}

	m := cl.GenerativeModel(strings.TrimSpace(p.model))
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(nutritionPrompt)},
	}

	mime := strings.TrimPrefix(sniffMIME(imageData), "image/")
	resp, err := m.GenerateContent(ctx,
		genai.Text("Analyze this meal photo."),
		genai.ImageData(mime, imgBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return analysis, nil
}

// firstText concatenates the text parts of the first candidate
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func ptrFloat32(v float32) *float32 { return &v }
