package domain

import (
	"context"
	"time"
)

// ProductDetails holds the long-form narrative of a product. At most one per product.
type ProductDetails struct {
	ID                    int64     `json:"id"`
	ProductID             int64     `json:"product_id"`
	ProblemStatement      *string   `json:"problem_statement"`
	TargetAudience        *string   `json:"target_audience"`
	SolutionDescription   *string   `json:"solution_description"`
	TechnicalDetails      *string   `json:"technical_details"`
	FutureRoadmap         *string   `json:"future_roadmap"`
	DevelopmentChallenges *string   `json:"development_challenges"`
	KeyFeatures           []string  `json:"key_features"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DetailsInput is written as a whole: nil fields are stored as NULL, never "unchanged".
type DetailsInput struct {
	ProblemStatement      *string  `json:"problem_statement"`
	TargetAudience        *string  `json:"target_audience"`
	SolutionDescription   *string  `json:"solution_description"`
	TechnicalDetails      *string  `json:"technical_details"`
	FutureRoadmap         *string  `json:"future_roadmap"`
	DevelopmentChallenges *string  `json:"development_challenges"`
	KeyFeatures           []string `json:"key_features"`
}

type DetailsRepository interface {
	// FindDetails is the single-row probe. ErrNotFound when absent.
	FindDetails(ctx context.Context, productID int64) (*ProductDetails, error)
	CreateDetails(ctx context.Context, productID int64, in DetailsInput) (*ProductDetails, error)
	// UpdateDetails fully replaces the narrative fields. ErrNotFound when absent.
	UpdateDetails(ctx context.Context, productID int64, in DetailsInput) (*ProductDetails, error)
	// UpsertDetails is the atomic path. ErrUnsupported when the store cannot do it.
	UpsertDetails(ctx context.Context, productID int64, in DetailsInput) (*ProductDetails, error)
	DeleteDetails(ctx context.Context, productID int64) error
}
