// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
)

var _ adapter.VisionAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter implements adapter.VisionAdapter using the official SDK.
// Two models are configured: a multimodal text model for face-shape
// classification and an image-generation model for try-on previews.
type GeminiAdapter struct {
	client       *genai.Client
	analyzeModel string
	imageModel   string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, analyzeModel, imageModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, analyzeModel: analyzeModel, imageModel: imageModel}, nil
}

const analyzePrompt = `You are a professional hairstylist. Classify the face shape in this photo as one of: oval, round, square, heart, oblong, diamond. Then suggest 5 hairstyles that flatter that shape.
Respond with JSON only: {"shape": "...", "confidence": 0.0, "suggestions": [{"id": "...", "name": "...", "description": "..."}]}`

func (g *GeminiAdapter) AnalyzeFace(ctx context.Context, image []byte, mimeType string) (*model.FaceAnalysis, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(analyzePrompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.analyzeModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini analyze: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, domain.ErrGenerationFailed
	}

	var out struct {
		Shape       string                      `json:"shape"`
		Confidence  float64                     `json:"confidence"`
		Suggestions []model.HairstyleSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return nil, fmt.Errorf("gemini analyze: decode: %w", err)
	}
	return &model.FaceAnalysis{
		Shape:       model.FaceShape(strings.ToLower(out.Shape)),
		Confidence:  out.Confidence,
		Suggestions: out.Suggestions,
	}, nil
}

func (g *GeminiAdapter) GeneratePreview(ctx context.Context, image []byte, mimeType, styleName string) (*model.StylePreview, error) {
	prompt := fmt.Sprintf("Render this exact person with a %q hairstyle. Keep the face, skin tone and lighting unchanged; only the hair changes. Photorealistic output.", styleName)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &model.StylePreview{
					MIMEType: part.InlineData.MIMEType,
					Image:    part.InlineData.Data,
				}, nil
			}
		}
	}
	return nil, domain.ErrGenerationFailed
}

func firstText(resp *genai.GenerateContentResponse) string {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
