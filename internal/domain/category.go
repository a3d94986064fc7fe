package domain

import (
	"context"
	"time"
)

// Well-known category slugs provisioned at startup.
const (
	CategorySlugMicroSaaS = "microsaas"
	CategorySlugNoCode    = "nocode"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductCategory is a row of the product_categories join table.
type ProductCategory struct {
	ProductID  int64 `json:"product_id"`
	CategoryID int64 `json:"category_id"`
}

// AssignResult reports a category reconciliation run.
type AssignResult struct {
	Requested       int `json:"requested"`
	AlreadyAssigned int `json:"already_assigned"`
	Attempted       int `json:"attempted"`
	Inserted        int `json:"inserted"`
	Failed          int `json:"failed"`
}

// Partial reports whether some association inserts failed.
func (r AssignResult) Partial() bool {
	return r.Failed > 0
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	// GetCategoryBySlug returns ErrNotFound when no category has the slug.
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	// CreateCategory returns ErrAlreadyExists on a slug collision.
	CreateCategory(ctx context.Context, category *Category) error

	// M2M: product <-> category
	// ListCategoryProductIDs returns the product ids joined to the category,
	// restricted to productIDs when it is non-empty.
	ListCategoryProductIDs(ctx context.Context, categoryID int64, productIDs []int64) ([]int64, error)
	AddProductToCategory(ctx context.Context, productID, categoryID int64) error
	RemoveProductFromCategories(ctx context.Context, productID int64) error
}
