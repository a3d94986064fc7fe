package v1

import (
	"net/http"

	"showcase-backend/internal/delivery/http/middleware"
)

type Handlers struct {
	Catalog       *CatalogHandler
	Details       *DetailsHandler
	AdminCatalog  *AdminCatalogHandler
	Content       *ContentHandler
	Sitemap       *SitemapHandler
	Upload        *UploadHandler
	Notifications *NotificationsHandler
}

// RegisterRoutes mounts the public and admin API on mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	admin := middleware.RequireAdmin

	// Public catalog
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/products/{id}/full", h.Catalog.GetProductWithDetails)
	mux.HandleFunc("GET /api/v1/products/{id}/details", h.Details.GetDetails)
	mux.HandleFunc("GET /api/v1/categories", h.Catalog.ListCategories)
	mux.HandleFunc("GET /api/v1/categories/{slug}", h.Catalog.GetCategory)
	mux.HandleFunc("GET /api/v1/categories/{slug}/products", h.Catalog.ListProductsByCategory)

	// Public content
	mux.HandleFunc("GET /api/v1/content/social-icons", h.Content.ListSocialIcons)
	mux.HandleFunc("GET /api/v1/content/videos", h.Content.ListVideos)
	mux.HandleFunc("GET /api/v1/content/about", h.Content.ListAbout)
	mux.Handle("GET /sitemap.xml", h.Sitemap)

	// Admin
	mux.Handle("POST /api/v1/admin/products", admin(h.AdminCatalog.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", admin(h.AdminCatalog.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", admin(h.AdminCatalog.DeleteProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}/details", admin(h.Details.SaveDetails))
	mux.Handle("DELETE /api/v1/admin/products/{id}/details", admin(h.Details.DeleteDetails))
	mux.Handle("POST /api/v1/admin/categories", admin(h.AdminCatalog.CreateCategory))
	mux.Handle("POST /api/v1/admin/categories/{slug}/products", admin(h.AdminCatalog.AssignProducts))
	mux.Handle("POST /api/v1/admin/upload", admin(h.Upload.UploadFile))
	mux.Handle("GET /api/v1/admin/notifications", admin(h.Notifications.List))
}
