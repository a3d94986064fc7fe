package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"showcase-backend/internal/domain"
	"showcase-backend/internal/notify"
	"showcase-backend/internal/usecase"
	"showcase-backend/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type catalogMock struct {
	ListProductsFunc             func(ctx context.Context) ([]domain.Product, error)
	GetProductFunc               func(ctx context.Context, id int64) (*domain.Product, error)
	GetProductWithDetailsFunc    func(ctx context.Context, id int64) (*domain.ProductWithDetails, error)
	ListCategoriesFunc           func(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlugFunc        func(ctx context.Context, slug string) (*domain.Category, error)
	ListProductsByCategoryFunc   func(ctx context.Context, slug string) ([]domain.Product, error)
	CreateProductFunc            func(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProductFunc            func(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProductFunc            func(ctx context.Context, id int64) error
	CreateCategoryFunc           func(ctx context.Context, name, slug string, description *string) (*domain.Category, error)
	AssignProductsToCategoryFunc func(ctx context.Context, productIDs []int64, slug string) (*domain.AssignResult, error)
}

func (m *catalogMock) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return m.ListProductsFunc(ctx)
}

func (m *catalogMock) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *catalogMock) GetProductWithDetails(ctx context.Context, id int64) (*domain.ProductWithDetails, error) {
	return m.GetProductWithDetailsFunc(ctx, id)
}

func (m *catalogMock) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return m.ListCategoriesFunc(ctx)
}

func (m *catalogMock) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return m.GetCategoryBySlugFunc(ctx, slug)
}

func (m *catalogMock) ListProductsByCategory(ctx context.Context, slug string) ([]domain.Product, error) {
	return m.ListProductsByCategoryFunc(ctx, slug)
}

func (m *catalogMock) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return m.CreateProductFunc(ctx, in)
}

func (m *catalogMock) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	return m.UpdateProductFunc(ctx, id, patch)
}

func (m *catalogMock) DeleteProduct(ctx context.Context, id int64) error {
	return m.DeleteProductFunc(ctx, id)
}

func (m *catalogMock) CreateCategory(ctx context.Context, name, slug string, description *string) (*domain.Category, error) {
	return m.CreateCategoryFunc(ctx, name, slug, description)
}

func (m *catalogMock) AssignProductsToCategory(ctx context.Context, productIDs []int64, slug string) (*domain.AssignResult, error) {
	return m.AssignProductsToCategoryFunc(ctx, productIDs, slug)
}

type detailsMock struct {
	GetDetailsFunc    func(ctx context.Context, productID int64) (*domain.ProductDetails, error)
	SaveDetailsFunc   func(ctx context.Context, productID int64, in domain.DetailsInput) *domain.ProductDetails
	DeleteDetailsFunc func(ctx context.Context, productID int64) error
}

func (m *detailsMock) GetDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	return m.GetDetailsFunc(ctx, productID)
}

func (m *detailsMock) SaveDetails(ctx context.Context, productID int64, in domain.DetailsInput) *domain.ProductDetails {
	return m.SaveDetailsFunc(ctx, productID, in)
}

func (m *detailsMock) DeleteDetails(ctx context.Context, productID int64) error {
	return m.DeleteDetailsFunc(ctx, productID)
}

type contentMock struct {
	ListSocialIconsFunc  func(ctx context.Context) ([]domain.SocialMediaIcon, error)
	ListVideosFunc       func(ctx context.Context) ([]domain.Video, error)
	ListAboutEntriesFunc func(ctx context.Context) ([]domain.AboutEntry, error)
}

func (m *contentMock) ListSocialIcons(ctx context.Context) ([]domain.SocialMediaIcon, error) {
	return m.ListSocialIconsFunc(ctx)
}

func (m *contentMock) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return m.ListVideosFunc(ctx)
}

func (m *contentMock) ListAboutEntries(ctx context.Context) ([]domain.AboutEntry, error) {
	return m.ListAboutEntriesFunc(ctx)
}

type sitemapMock struct {
	GenerateSitemapFunc func(ctx context.Context) ([]usecase.SitemapItem, error)
}

func (m *sitemapMock) GenerateSitemap(ctx context.Context) ([]usecase.SitemapItem, error) {
	return m.GenerateSitemapFunc(ctx)
}

type uploaderMock struct {
	UploadBufferFunc func(ctx context.Context, data []byte, contentType string) (string, error)
}

func (m *uploaderMock) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	return m.UploadBufferFunc(ctx, data, contentType)
}

// emit stands in for the use case's notifier.
func emit(ctx context.Context, n notify.Notice) {
	notify.Request.Notify(ctx, n)
}

type server struct {
	mux      *http.ServeMux
	catalog  *catalogMock
	details  *detailsMock
	content  *contentMock
	sitemap  *sitemapMock
	uploader *uploaderMock
	feed     *notify.Feed
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{
		mux:      http.NewServeMux(),
		catalog:  &catalogMock{},
		details:  &detailsMock{},
		content:  &contentMock{},
		sitemap:  &sitemapMock{},
		uploader: &uploaderMock{},
		feed:     notify.NewFeed(10),
	}
	RegisterRoutes(s.mux, Handlers{
		Catalog:       NewCatalogHandler(s.catalog),
		Details:       NewDetailsHandler(s.details),
		AdminCatalog:  NewAdminCatalogHandler(s.catalog),
		Content:       NewContentHandler(s.content),
		Sitemap:       NewSitemapHandler(s.sitemap),
		Upload:        NewUploadHandler(s.uploader, 1),
		Notifications: NewNotificationsHandler(s.feed),
	})
	return s
}

const testSecret = "handler-secret"

func adminToken(t *testing.T) string {
	t.Helper()
	utils.SetSecret(testSecret)
	tok, err := utils.GenerateJWT("admin-1", "admin@showcase.dev", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	return tok
}

// do serves req; a non-empty token is sent as a Bearer header.
func (s *server) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
