package ai

import (
	"context"
	"time"

	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
)

var _ adapter.VisionAdapter = (*NoopVisionAdapter)(nil)

// NoopVisionAdapter implements adapter.VisionAdapter for local/dev testing.
// It returns canned results instead of calling a real vision service.
type NoopVisionAdapter struct{}

func NewNoopVisionAdapter() *NoopVisionAdapter {
	return &NoopVisionAdapter{}
}

func (a *NoopVisionAdapter) AnalyzeFace(ctx context.Context, image []byte, mimeType string) (*model.FaceAnalysis, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &model.FaceAnalysis{
		Shape:      model.FaceShapeOval,
		Confidence: 0.9,
		Suggestions: []model.HairstyleSuggestion{
			{ID: "textured-crop", Name: "Textured Crop", Description: "Short with natural texture on top."},
			{ID: "side-part", Name: "Classic Side Part", Description: "Clean, timeless, works with most face shapes."},
		},
	}, nil
}

func (a *NoopVisionAdapter) GeneratePreview(ctx context.Context, image []byte, mimeType, styleName string) (*model.StylePreview, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	// Echo the input image back as the "preview".
	return &model.StylePreview{MIMEType: mimeType, Image: image}, nil
}
