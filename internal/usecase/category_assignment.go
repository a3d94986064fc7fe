package usecase

import (
	"context"
	"errors"
	"fmt"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
)

// AssignProductsToCategory links the given products to the category named by
// slug, inserting only the links that do not exist yet. Individual insert
// failures are counted in the result and do not stop the batch.
func (u *CatalogUsecase) AssignProductsToCategory(ctx context.Context, productIDs []int64, slug string) (*domain.AssignResult, error) {
	op := string(query.MutationAssignCategory)
	if len(productIDs) == 0 {
		return &domain.AssignResult{}, nil
	}

	category, err := u.categories.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		err = fmt.Errorf("%w: %q", domain.ErrCategoryNotFound, slug)
		u.notifier.Notify(ctx, notify.Failure(op, fmt.Sprintf("Category %q not found", slug), err))
		return nil, err
	}
	if err != nil {
		return nil, u.mutationFailed(ctx, query.MutationAssignCategory, "Failed to resolve category", err)
	}

	ids := dedupeIDs(productIDs)
	assigned, err := u.categories.ListCategoryProductIDs(ctx, category.ID, ids)
	if err != nil {
		return nil, u.mutationFailed(ctx, query.MutationAssignCategory, "Failed to load category assignments", err)
	}

	existing := make(map[int64]struct{}, len(assigned))
	for _, id := range assigned {
		existing[id] = struct{}{}
	}
	toAdd := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}

	result := &domain.AssignResult{
		Requested:       len(ids),
		AlreadyAssigned: len(ids) - len(toAdd),
		Attempted:       len(toAdd),
	}
	if len(toAdd) == 0 {
		u.notifier.Notify(ctx, notify.Success(op, "All products are already in this category"))
		return result, nil
	}

	for _, productID := range toAdd {
		err := u.categories.AddProductToCategory(ctx, productID, category.ID)
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, domain.ErrAlreadyExists):
			// linked concurrently since the diff was taken
			result.AlreadyAssigned++
		default:
			result.Failed++
			u.log.Warn().Err(err).
				Int64("product_id", productID).
				Str("category", category.Slug).
				Msg("Failed to add product to category")
		}
	}

	if result.Inserted > 0 {
		u.queries.Apply(query.MutationAssignCategory, category.Slug)
	}

	if result.Partial() {
		msg := fmt.Sprintf("Assigned %d of %d products to %s", result.Inserted, result.Attempted, category.Name)
		u.notifier.Notify(ctx, notify.Failure(op, msg, fmt.Errorf("%d inserts failed", result.Failed)))
		return result, nil
	}
	u.notifier.Notify(ctx, notify.Success(op, fmt.Sprintf("Assigned %d products to %s", result.Inserted, category.Name)))
	return result, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
