package usecase

import (
	"context"
	"errors"

	"showcase-backend/config"
	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
	"showcase-backend/pkg/logger"

	"github.com/rs/zerolog"
)

type CatalogUsecase struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	details    domain.DetailsRepository
	tx         domain.TransactionManager
	queries    *query.Client
	notifier   notify.Notifier
	cfg        *config.Config
	log        zerolog.Logger
}

func NewCatalogUsecase(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	details domain.DetailsRepository,
	tx domain.TransactionManager,
	queries *query.Client,
	notifier notify.Notifier,
	cfg *config.Config,
) *CatalogUsecase {
	return &CatalogUsecase{
		products:   products,
		categories: categories,
		details:    details,
		tx:         tx,
		queries:    queries,
		notifier:   notifier,
		cfg:        cfg,
		log:        logger.Component("catalog"),
	}
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceProducts), u.cfg.CacheProductsTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			return u.products.ListProducts(ctx, domain.ProductFilter{})
		})
}

// GetProduct returns nil when the product does not exist.
func (u *CatalogUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return query.Fetch(ctx, u.queries, query.IDKey(query.ResourceProduct, id), u.cfg.CacheProductTTL,
		func(ctx context.Context) (*domain.Product, error) {
			p, err := u.products.GetProductByID(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return p, err
		})
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceCategories), u.cfg.CacheCategoryTTL,
		func(ctx context.Context) ([]domain.Category, error) {
			return u.categories.ListCategories(ctx)
		})
}

// GetCategoryBySlug returns nil when no category has the slug.
func (u *CatalogUsecase) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceCategory, slug), u.cfg.CacheCategoryTTL,
		func(ctx context.Context) (*domain.Category, error) {
			c, err := u.categories.GetCategoryBySlug(ctx, slug)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return c, err
		})
}

// ListProductsByCategory returns the products whose primary category is the
// slug's category or that are linked to it through product_categories.
// An unknown slug yields an empty list.
func (u *CatalogUsecase) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceProductsByCategory, slug), u.cfg.CacheProductsTTL,
		func(ctx context.Context) ([]domain.Product, error) {
			category, err := u.categories.GetCategoryBySlug(ctx, slug)
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Product{}, nil
			}
			if err != nil {
				return nil, err
			}

			linked, err := u.categories.ListCategoryProductIDs(ctx, category.ID, nil)
			if err != nil {
				return nil, err
			}

			return u.products.ListProducts(ctx, domain.ProductFilter{
				CategoryID: &category.ID,
				IDs:        linked,
			})
		})
}

// GetProductWithDetails returns the product with its details record attached.
// Details are nil when absent or when their lookup fails; the product is nil when absent.
func (u *CatalogUsecase) GetProductWithDetails(ctx context.Context, id int64) (*domain.ProductWithDetails, error) {
	return query.Fetch(ctx, u.queries, query.IDKey(query.ResourceProductWithDetails, id), u.cfg.CacheDetailsTTL,
		func(ctx context.Context) (*domain.ProductWithDetails, error) {
			p, err := u.products.GetProductByID(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}

			out := &domain.ProductWithDetails{Product: *p}
			d, err := u.details.FindDetails(ctx, id)
			switch {
			case err == nil:
				out.Details = d
			case !errors.Is(err, domain.ErrNotFound):
				u.log.Warn().Err(err).Int64("product_id", id).Msg("Details lookup failed, serving product without details")
			}
			return out, nil
		})
}

// Warm loads the product list and categories and keeps them warm: after any
// invalidation they are refetched in the background. Call the returned func to stop.
func (u *CatalogUsecase) Warm(ctx context.Context) (release func()) {
	releaseProducts := u.queries.Observe(query.NewKey(query.ResourceProducts), func(ctx context.Context) {
		if _, err := u.ListProducts(ctx); err != nil {
			u.log.Warn().Err(err).Msg("Product list refetch failed")
		}
	})
	releaseCategories := u.queries.Observe(query.NewKey(query.ResourceCategories), func(ctx context.Context) {
		if _, err := u.ListCategories(ctx); err != nil {
			u.log.Warn().Err(err).Msg("Category refetch failed")
		}
	})

	if _, err := u.ListProducts(ctx); err != nil {
		u.log.Warn().Err(err).Msg("Initial product list load failed")
	}
	if _, err := u.ListCategories(ctx); err != nil {
		u.log.Warn().Err(err).Msg("Initial category load failed")
	}

	return func() {
		releaseProducts()
		releaseCategories()
	}
}

// mutationFailed wraps err, emits the failure notice and logs it.
func (u *CatalogUsecase) mutationFailed(ctx context.Context, m query.Mutation, message string, err error) error {
	merr := domain.NewMutationError(string(m), err)
	u.log.Error().Err(err).Str("op", string(m)).Msg(message)
	u.notifier.Notify(ctx, notify.Failure(string(m), message, err))
	return merr
}
