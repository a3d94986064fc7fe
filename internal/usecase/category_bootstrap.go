package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
	"showcase-backend/pkg/utils"
)

// defaultCategories must exist for the home page rows to render.
var defaultCategories = []domain.Category{
	{Name: "Micro SaaS", Slug: domain.CategorySlugMicroSaaS},
	{Name: "No-Code", Slug: domain.CategorySlugNoCode},
}

// EnsureDefaultCategories creates any missing well-known category and returns
// the slugs it created. Each category is checked on its own; errors are logged
// and skipped so startup never fails on them.
func (u *CatalogUsecase) EnsureDefaultCategories(ctx context.Context) []string {
	var created []string
	for _, def := range defaultCategories {
		_, err := u.categories.GetCategoryBySlug(ctx, def.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Err(err).Str("slug", def.Slug).Msg("Failed to check default category")
			continue
		}

		category := def
		if err := u.categories.CreateCategory(ctx, &category); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				u.log.Debug().Str("slug", def.Slug).Msg("Default category created concurrently")
				continue
			}
			u.log.Warn().Err(err).Str("slug", def.Slug).Msg("Failed to create default category")
			continue
		}
		created = append(created, category.Slug)
		u.log.Info().Str("slug", category.Slug).Msg("Created default category")
	}

	if len(created) > 0 {
		u.queries.Apply(query.MutationCreateCategory)
	}
	return created
}

// CreateCategory creates a category. An empty slug is derived from the name.
func (u *CatalogUsecase) CreateCategory(ctx context.Context, name, categorySlug string, description *string) (*domain.Category, error) {
	op := string(query.MutationCreateCategory)

	name = strings.TrimSpace(name)
	if name == "" {
		err := domain.NewValidationError("name", "category name is required")
		u.notifier.Notify(ctx, notify.Failure(op, "Category name is required", err))
		return nil, err
	}
	if categorySlug == "" {
		categorySlug = name
	}
	categorySlug = utils.GenerateSlug(categorySlug)
	if categorySlug == "" {
		err := domain.NewValidationError("slug", "slug must contain letters or digits")
		u.notifier.Notify(ctx, notify.Failure(op, "Category slug is invalid", err))
		return nil, err
	}

	_, err := u.categories.GetCategoryBySlug(ctx, categorySlug)
	if err == nil {
		err = fmt.Errorf("slug %q: %w", categorySlug, domain.ErrAlreadyExists)
		return nil, u.mutationFailed(ctx, query.MutationCreateCategory, "Category slug is already taken", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, u.mutationFailed(ctx, query.MutationCreateCategory, "Failed to check category slug", err)
	}

	category := &domain.Category{Name: name, Slug: categorySlug, Description: description}
	if err := u.categories.CreateCategory(ctx, category); err != nil {
		return nil, u.mutationFailed(ctx, query.MutationCreateCategory, "Failed to create category", err)
	}

	u.queries.Apply(query.MutationCreateCategory)
	u.notifier.Notify(ctx, notify.Success(op, "Category created successfully"))
	return category, nil
}
