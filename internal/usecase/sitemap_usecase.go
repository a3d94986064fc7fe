package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"showcase-backend/config"
	"showcase-backend/internal/domain"
	"showcase-backend/internal/query"
)

type SitemapItem struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   float32
}

type SitemapUsecase struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	baseURL    string
	queries    *query.Client
	cfg        *config.Config
}

func NewSitemapUsecase(products domain.ProductRepository, categories domain.CategoryRepository, queries *query.Client, cfg *config.Config) *SitemapUsecase {
	return &SitemapUsecase{
		products:   products,
		categories: categories,
		baseURL:    strings.TrimSuffix(cfg.FrontendURL, "/"),
		queries:    queries,
		cfg:        cfg,
	}
}

func (u *SitemapUsecase) GenerateSitemap(ctx context.Context) ([]SitemapItem, error) {
	return query.Fetch(ctx, u.queries, query.NewKey(query.ResourceSitemap), u.cfg.CacheSitemapTTL, u.build)
}

func (u *SitemapUsecase) build(ctx context.Context) ([]SitemapItem, error) {
	var items []SitemapItem
	now := time.Now().Format("2006-01-02")

	// 1. Static Pages
	statics := []string{"", "/about", "/videos"} // Empty string for root
	for _, s := range statics {
		items = append(items, SitemapItem{
			Loc:        u.baseURL + s,
			LastMod:    now,
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	// Root has higher priority
	items[0].Priority = 1.0

	// 2. Products
	products, err := u.products.ListProducts(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	for _, p := range products {
		items = append(items, SitemapItem{
			Loc:        fmt.Sprintf("%s/product/%d", u.baseURL, p.ID),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.9,
		})
	}

	// 3. Categories
	categories, err := u.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	for _, c := range categories {
		items = append(items, SitemapItem{
			Loc:        fmt.Sprintf("%s/category/%s", u.baseURL, c.Slug),
			LastMod:    c.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	return items, nil
}
