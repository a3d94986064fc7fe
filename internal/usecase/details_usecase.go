package usecase

import (
	"context"
	"errors"
	"strconv"

	"showcase-backend/config"
	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
	"showcase-backend/pkg/logger"

	"github.com/rs/zerolog"
)

type DetailsUsecase struct {
	repo     domain.DetailsRepository
	queries  *query.Client
	notifier notify.Notifier
	cfg      *config.Config
	log      zerolog.Logger
}

func NewDetailsUsecase(repo domain.DetailsRepository, queries *query.Client, notifier notify.Notifier, cfg *config.Config) *DetailsUsecase {
	return &DetailsUsecase{
		repo:     repo,
		queries:  queries,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.Component("details"),
	}
}

// GetDetails returns nil when the product has no details record.
func (u *DetailsUsecase) GetDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	return query.Fetch(ctx, u.queries, query.IDKey(query.ResourceProductDetails, productID), u.cfg.CacheDetailsTTL,
		func(ctx context.Context) (*domain.ProductDetails, error) {
			d, err := u.repo.FindDetails(ctx, productID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return d, err
		})
}

// SaveDetails creates the product's details record or fully replaces the
// existing one. It reports failure through a notice and a nil result.
func (u *DetailsUsecase) SaveDetails(ctx context.Context, productID int64, in domain.DetailsInput) *domain.ProductDetails {
	op := string(query.MutationSaveDetails)

	d, err := u.save(ctx, productID, in)
	if err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("Failed to save product details")
		u.notifier.Notify(ctx, notify.Failure(op, "Failed to save product details", err))
		return nil
	}

	u.queries.Apply(query.MutationSaveDetails, strconv.FormatInt(productID, 10))
	u.notifier.Notify(ctx, notify.Success(op, "Product details saved successfully"))
	return d
}

// save prefers a single-statement upsert. When the store cannot do that it
// probes for an existing row: found means update, anything else means create.
// A probe error also leads to create; a duplicate is then rejected by the
// store's unique product_id.
func (u *DetailsUsecase) save(ctx context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	d, err := u.repo.UpsertDetails(ctx, productID, in)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, domain.ErrUnsupported) {
		return nil, err
	}

	existing, err := u.repo.FindDetails(ctx, productID)
	if err == nil && existing != nil {
		return u.repo.UpdateDetails(ctx, productID, in)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Int64("product_id", productID).Msg("Details probe failed, creating")
	}
	return u.repo.CreateDetails(ctx, productID, in)
}

// DeleteDetails removes the product's details record; the product stays.
func (u *DetailsUsecase) DeleteDetails(ctx context.Context, productID int64) error {
	op := string(query.MutationDeleteDetails)

	if err := u.repo.DeleteDetails(ctx, productID); err != nil {
		u.log.Error().Err(err).Int64("product_id", productID).Msg("Failed to delete product details")
		u.notifier.Notify(ctx, notify.Failure(op, "Failed to delete product details", err))
		return domain.NewMutationError(op, err)
	}

	u.queries.Apply(query.MutationDeleteDetails, strconv.FormatInt(productID, 10))
	u.notifier.Notify(ctx, notify.Success(op, "Product details deleted successfully"))
	return nil
}
