package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"showcase-backend/config"
	"showcase-backend/internal/domain"
	memcache "showcase-backend/internal/infrastructure/cache"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/query"
)

// memStore is an in-memory remote store. It implements every repository the
// use cases depend on, counts calls per operation and can be told to fail.
type memStore struct {
	mu sync.Mutex

	products   map[int64]domain.Product
	categories map[string]domain.Category
	links      map[domain.ProductCategory]struct{}
	details    map[int64]domain.ProductDetails
	nextID     int64

	// upsert makes UpsertDetails work instead of returning ErrUnsupported.
	upsert bool

	calls    map[string]int
	writes   int
	errs     map[string]error
	linkErrs map[int64]error
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[int64]domain.Product),
		categories: make(map[string]domain.Category),
		links:      make(map[domain.ProductCategory]struct{}),
		details:    make(map[int64]domain.ProductDetails),
		calls:      make(map[string]int),
		errs:       make(map[string]error),
		linkErrs:   make(map[int64]error),
	}
}

// call records op and returns the injected error for it, if any. Callers hold mu.
func (s *memStore) call(op string) error {
	s.calls[op]++
	return s.errs[op]
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[op] = err
}

func (s *memStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memStore) seedProduct(title string, categoryID *int64) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := domain.Product{ID: s.id(), Title: title, CategoryID: categoryID, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
	s.products[p.ID] = p
	return p
}

func (s *memStore) seedCategory(name, slug string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c := domain.Category{ID: s.id(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	s.categories[slug] = c
	return c
}

func (s *memStore) linkCount(categoryID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for l := range s.links {
		if l.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// --- products ---

func (s *memStore) ListProducts(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListProducts"); err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{}, len(f.IDs))
	for _, id := range f.IDs {
		ids[id] = struct{}{}
	}
	filtered := f.CategoryID != nil || len(f.IDs) > 0

	out := []domain.Product{}
	for _, p := range s.products {
		if filtered {
			_, linked := ids[p.ID]
			primary := f.CategoryID != nil && p.CategoryID != nil && *p.CategoryID == *f.CategoryID
			if !linked && !primary {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("GetProductByID"); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("CreateProduct"); err != nil {
		return nil, err
	}
	s.writes++
	now := time.Now()
	p := domain.Product{
		ID:           s.id(),
		Title:        in.Title,
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		CategoryID:   in.CategoryID,
		Tags:         in.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.products[p.ID] = p
	return &p, nil
}

func (s *memStore) UpdateProduct(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpdateProduct"); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.writes++
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		p.CategoryID = patch.CategoryID
	}
	if patch.ClearCategory {
		p.CategoryID = nil
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return &p, nil
}

func (s *memStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("DeleteProduct"); err != nil {
		return err
	}
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	s.writes++
	delete(s.products, id)
	return nil
}

// --- categories ---

func (s *memStore) ListCategories(context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListCategories"); err != nil {
		return nil, err
	}
	out := []domain.Category{}
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) GetCategoryBySlug(_ context.Context, slug string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("GetCategoryBySlug"); err != nil {
		return nil, err
	}
	c, ok := s.categories[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *memStore) CreateCategory(_ context.Context, c *domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("CreateCategory"); err != nil {
		return err
	}
	if _, ok := s.categories[c.Slug]; ok {
		return domain.ErrAlreadyExists
	}
	s.writes++
	c.ID = s.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.categories[c.Slug] = *c
	return nil
}

func (s *memStore) ListCategoryProductIDs(_ context.Context, categoryID int64, productIDs []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListCategoryProductIDs"); err != nil {
		return nil, err
	}
	want := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	out := []int64{}
	for l := range s.links {
		if l.CategoryID != categoryID {
			continue
		}
		if _, ok := want[l.ProductID]; len(productIDs) > 0 && !ok {
			continue
		}
		out = append(out, l.ProductID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *memStore) AddProductToCategory(_ context.Context, productID, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("AddProductToCategory"); err != nil {
		return err
	}
	if err := s.linkErrs[productID]; err != nil {
		return err
	}
	link := domain.ProductCategory{ProductID: productID, CategoryID: categoryID}
	if _, ok := s.links[link]; ok {
		return domain.ErrAlreadyExists
	}
	s.writes++
	s.links[link] = struct{}{}
	return nil
}

func (s *memStore) RemoveProductFromCategories(_ context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("RemoveProductFromCategories"); err != nil {
		return err
	}
	for l := range s.links {
		if l.ProductID == productID {
			s.writes++
			delete(s.links, l)
		}
	}
	return nil
}

// --- details ---

func (s *memStore) FindDetails(_ context.Context, productID int64) (*domain.ProductDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("FindDetails"); err != nil {
		return nil, err
	}
	d, ok := s.details[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (s *memStore) writeDetails(productID int64, in domain.DetailsInput, existing *domain.ProductDetails) *domain.ProductDetails {
	now := time.Now()
	d := domain.ProductDetails{
		ProductID:             productID,
		ProblemStatement:      in.ProblemStatement,
		TargetAudience:        in.TargetAudience,
		SolutionDescription:   in.SolutionDescription,
		TechnicalDetails:      in.TechnicalDetails,
		FutureRoadmap:         in.FutureRoadmap,
		DevelopmentChallenges: in.DevelopmentChallenges,
		KeyFeatures:           in.KeyFeatures,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if existing != nil {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	} else {
		d.ID = s.id()
	}
	s.writes++
	s.details[productID] = d
	return &d
}

func (s *memStore) CreateDetails(_ context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("CreateDetails"); err != nil {
		return nil, err
	}
	if _, ok := s.details[productID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	return s.writeDetails(productID, in, nil), nil
}

func (s *memStore) UpdateDetails(_ context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpdateDetails"); err != nil {
		return nil, err
	}
	existing, ok := s.details[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.writeDetails(productID, in, &existing), nil
}

func (s *memStore) UpsertDetails(_ context.Context, productID int64, in domain.DetailsInput) (*domain.ProductDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("UpsertDetails"); err != nil {
		return nil, err
	}
	if !s.upsert {
		return nil, domain.ErrUnsupported
	}
	if existing, ok := s.details[productID]; ok {
		return s.writeDetails(productID, in, &existing), nil
	}
	return s.writeDetails(productID, in, nil), nil
}

func (s *memStore) DeleteDetails(_ context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("DeleteDetails"); err != nil {
		return err
	}
	if _, ok := s.details[productID]; ok {
		s.writes++
		delete(s.details, productID)
	}
	return nil
}

// --- content ---

func (s *memStore) ListSocialIcons(context.Context) ([]domain.SocialMediaIcon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListSocialIcons"); err != nil {
		return nil, err
	}
	return []domain.SocialMediaIcon{{ID: 1, Name: "github", IconURL: "https://cdn/github.svg"}}, nil
}

func (s *memStore) ListVideos(context.Context) ([]domain.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListVideos"); err != nil {
		return nil, err
	}
	return []domain.Video{{ID: 1, Title: "Demo", VideoURL: "https://cdn/demo.mp4"}}, nil
}

func (s *memStore) ListAboutEntries(context.Context) ([]domain.AboutEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ListAboutEntries"); err != nil {
		return nil, err
	}
	return []domain.AboutEntry{{ID: 1, Title: "About", Content: "Builder of small things"}}, nil
}

// --- transactions ---

// Do runs fn directly; the fake has no rollback.
func (s *memStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- fixtures ---

func testConfig() *config.Config {
	return &config.Config{
		FrontendURL:      "https://showcase.dev",
		CacheProductsTTL: time.Minute,
		CacheProductTTL:  time.Minute,
		CacheCategoryTTL: 5 * time.Minute,
		CacheDetailsTTL:  time.Minute,
		CacheVideosTTL:   30 * time.Second,
		CacheSocialTTL:   10 * time.Minute,
		CacheAboutTTL:    10 * time.Minute,
		CacheSitemapTTL:  time.Hour,
	}
}

type fixture struct {
	store   *memStore
	feed    *notify.Feed
	queries *query.Client
	catalog *CatalogUsecase
	details *DetailsUsecase
	content ContentUsecase
	sitemap *SitemapUsecase
}

func newFixture() *fixture {
	store := newMemStore()
	feed := notify.NewFeed(100)
	cfg := testConfig()
	queries := query.NewClient(memcache.NewMemoryCache(time.Minute, time.Minute))
	return &fixture{
		store:   store,
		feed:    feed,
		queries: queries,
		catalog: NewCatalogUsecase(store, store, store, store, queries, feed, cfg),
		details: NewDetailsUsecase(store, queries, feed, cfg),
		content: NewContentUsecase(store, queries, cfg),
		sitemap: NewSitemapUsecase(store, store, queries, cfg),
	}
}
