package adapter

import (
	"context"

	"hairstyle-ai-studio/internal/domain/model"
)

// VisionAdapter abstracts the external generative vision service: face-shape
// classification and photorealistic hairstyle preview synthesis.
type VisionAdapter interface {
	// AnalyzeFace classifies the face in the image and proposes hairstyles.
	AnalyzeFace(ctx context.Context, image []byte, mimeType string) (*model.FaceAnalysis, error)
	// GeneratePreview renders the person in the image wearing the named style.
	GeneratePreview(ctx context.Context, image []byte, mimeType, styleName string) (*model.StylePreview, error)
}
