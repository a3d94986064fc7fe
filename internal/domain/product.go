package domain

import (
	"context"
	"strings"
	"time"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Product is a showcased side project.
type Product struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	VideoURL       *string   `json:"video_url"`
	ProductLink    *string   `json:"product_link"`
	SourceCodeLink *string   `json:"source_code_link"`
	CategoryID     *int64    `json:"category_id"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductInput is the admin form payload for a new product.
type ProductInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ThumbnailURL   string   `json:"thumbnail_url"`
	VideoURL       *string  `json:"video_url"`
	ProductLink    *string  `json:"product_link"`
	SourceCodeLink *string  `json:"source_code_link"`
	CategoryID     *int64   `json:"category_id"`
	Tags           []string `json:"tags"`
}

// Validate only checks the title; everything else is left to the store's constraints.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	return nil
}

// ProductPatch is a partial update. Nil fields are left unchanged.
// ClearCategory removes the primary category and excludes CategoryID.
type ProductPatch struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	ThumbnailURL   *string   `json:"thumbnail_url"`
	VideoURL       *string   `json:"video_url"`
	ProductLink    *string   `json:"product_link"`
	SourceCodeLink *string   `json:"source_code_link"`
	CategoryID     *int64    `json:"category_id"`
	Tags           *[]string `json:"tags"`
	ClearCategory  bool      `json:"clear_category"`
}

// Validate rejects an explicit blank title; a nil title means "unchanged".
func (p ProductPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError("title", "title cannot be blank")
	}
	if p.ClearCategory && p.CategoryID != nil {
		return NewValidationError("category_id", "category_id cannot be set while clearing the category")
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ThumbnailURL == nil &&
		p.VideoURL == nil && p.ProductLink == nil && p.SourceCodeLink == nil &&
		p.CategoryID == nil && p.Tags == nil && !p.ClearCategory
}

// ProductFilter narrows ListProducts.
// When both CategoryID and IDs are set they are OR-ed: a product belongs to a
// category either through its primary category_id or through a join row.
type ProductFilter struct {
	CategoryID *int64
	IDs        []int64
	Limit      int
}

// ProductWithDetails is a product reconciled with its optional details record.
type ProductWithDetails struct {
	Product
	Details *ProductDetails `json:"details"`
}

type ProductRepository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	// GetProductByID returns ErrNotFound when the row is absent.
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
