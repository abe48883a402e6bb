// File: internal/usecase/style_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hairstyle-ai-studio/internal/domain"
	"hairstyle-ai-studio/internal/domain/model"
	"hairstyle-ai-studio/internal/domain/ports/adapter"
	"hairstyle-ai-studio/internal/infra/metrics"
)

// Compile-time check
var _ StyleUseCase = (*styleUC)(nil)

type StyleUseCase interface {
	// Analyze classifies the face shape and suggests styles. Free of charge.
	Analyze(ctx context.Context, userID string, image []byte, mimeType string) (*model.FaceAnalysis, error)
	// GeneratePreview renders the try-on image and consumes one credit on
	// success. Returns the preview and the remaining balance.
	GeneratePreview(ctx context.Context, userID string, image []byte, mimeType, styleName string) (*model.StylePreview, int64, error)
}

type styleUC struct {
	vision  adapter.VisionAdapter
	credits CreditUseCase
	log     *zerolog.Logger
}

func NewStyleUseCase(vision adapter.VisionAdapter, credits CreditUseCase, logger *zerolog.Logger) *styleUC {
	return &styleUC{vision: vision, credits: credits, log: logger}
}

func (u *styleUC) Analyze(ctx context.Context, userID string, image []byte, mimeType string) (*model.FaceAnalysis, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	start := time.Now()
	analysis, err := u.vision.AnalyzeFace(ctx, image, mimeType)
	metrics.ObserveVisionCall("analyze", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		return nil, err
	}
	analysis.UserID = userID
	analysis.CreatedAt = time.Now()
	return analysis, nil
}

func (u *styleUC) GeneratePreview(ctx context.Context, userID string, image []byte, mimeType, styleName string) (*model.StylePreview, int64, error) {
	if len(image) == 0 || styleName == "" {
		return nil, 0, domain.ErrInvalidArgument
	}

	// Affordability precheck before the expensive vision call. The deduction
	// below is still the atomic gate; this only avoids wasted generations.
	ok, err := u.credits.HasCredits(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, domain.ErrInsufficientCredits
	}

	start := time.Now()
	preview, err := u.vision.GeneratePreview(ctx, image, mimeType, styleName)
	metrics.ObserveVisionCall("generate", time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		return nil, 0, err
	}
	preview.UserID = userID
	preview.StyleID = styleName
	preview.CreatedAt = time.Now()

	balance, err := u.credits.Deduct(ctx, userID, "Hairstyle preview generation", "generation")
	if err != nil {
		// The image was produced but the credit could not be taken (raced to
		// zero). Deny the result; the balance invariant wins over the wasted call.
		u.log.Warn().Str("user_id", userID).Err(err).Msg("preview generated but deduction failed")
		return nil, 0, err
	}
	return preview, balance, nil
}
