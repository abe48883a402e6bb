package model

import "time"

type FaceShape string

const (
	FaceShapeOval    FaceShape = "oval"
	FaceShapeRound   FaceShape = "round"
	FaceShapeSquare  FaceShape = "square"
	FaceShapeHeart   FaceShape = "heart"
	FaceShapeOblong  FaceShape = "oblong"
	FaceShapeDiamond FaceShape = "diamond"
)

// HairstyleSuggestion is one recommended style for a classified face shape.
type HairstyleSuggestion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FaceAnalysis is the outcome of classifying an uploaded photo.
type FaceAnalysis struct {
	UserID      string
	Shape       FaceShape
	Confidence  float64
	Suggestions []HairstyleSuggestion
	CreatedAt   time.Time
}

// StylePreview is one generated try-on image. Image holds the raw encoded
// bytes as returned by the vision service.
type StylePreview struct {
	UserID    string
	StyleID   string
	MIMEType  string
	Image     []byte
	CreatedAt time.Time
}
