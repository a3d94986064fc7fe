package usecase

import (
	"context"
	"strconv"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
)

// CreateProduct validates the input before touching the store.
func (u *CatalogUsecase) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		u.notifier.Notify(ctx, notify.Failure(string(query.MutationCreateProduct), "Product title is required", err))
		return nil, err
	}

	p, err := u.products.CreateProduct(ctx, in)
	if err != nil {
		return nil, u.mutationFailed(ctx, query.MutationCreateProduct, "Failed to create product", err)
	}

	u.queries.Apply(query.MutationCreateProduct, strconv.FormatInt(p.ID, 10))
	u.notifier.Notify(ctx, notify.Success(string(query.MutationCreateProduct), "Product created successfully"))
	return p, nil
}

// UpdateProduct applies a partial update; nil fields keep their stored value.
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if err := patch.Validate(); err != nil {
		msg := "Product title cannot be blank"
		if patch.ClearCategory && patch.CategoryID != nil {
			msg = "Choose a category or clear it, not both"
		}
		u.notifier.Notify(ctx, notify.Failure(string(query.MutationUpdateProduct), msg, err))
		return nil, err
	}

	p, err := u.products.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, u.mutationFailed(ctx, query.MutationUpdateProduct, "Failed to update product", err)
	}

	u.queries.Apply(query.MutationUpdateProduct, strconv.FormatInt(id, 10))
	u.notifier.Notify(ctx, notify.Success(string(query.MutationUpdateProduct), "Product updated successfully"))
	return p, nil
}

// DeleteProduct removes the product together with its category links and details.
func (u *CatalogUsecase) DeleteProduct(ctx context.Context, id int64) error {
	err := u.tx.Do(ctx, func(ctx context.Context) error {
		if err := u.categories.RemoveProductFromCategories(ctx, id); err != nil {
			return err
		}
		if err := u.details.DeleteDetails(ctx, id); err != nil {
			return err
		}
		return u.products.DeleteProduct(ctx, id)
	})
	if err != nil {
		return u.mutationFailed(ctx, query.MutationDeleteProduct, "Failed to delete product", err)
	}

	u.queries.Apply(query.MutationDeleteProduct, strconv.FormatInt(id, 10))
	u.notifier.Notify(ctx, notify.Success(string(query.MutationDeleteProduct), "Product deleted successfully"))
	return nil
}
