package query

import (
	"strconv"
	"strings"
)

// Resource names the kind of data a cache key holds.
type Resource string

const (
	ResourceProducts           Resource = "products"
	ResourceProduct            Resource = "product"
	ResourceCategories         Resource = "categories"
	ResourceCategory           Resource = "category"
	ResourceProductsByCategory Resource = "products_by_category"
	ResourceProductDetails     Resource = "product_details"
	ResourceProductWithDetails Resource = "product_with_details"
	ResourceSocialIcons        Resource = "social_icons"
	ResourceVideos             Resource = "videos"
	ResourceAboutPage          Resource = "about_page"
	ResourceSitemap            Resource = "sitemap"
)

const keySep = "|"

// Key identifies one cached query: a resource plus its parameters.
type Key struct {
	Resource Resource
	Params   []string
}

func NewKey(res Resource, params ...string) Key {
	return Key{Resource: res, Params: params}
}

// IDKey builds a key parameterized by a numeric id.
func IDKey(res Resource, id int64) Key {
	return NewKey(res, strconv.FormatInt(id, 10))
}

// String renders the key as "resource|p1|p2". Params are trimmed and lowercased
// so equivalent lookups share an entry.
func (k Key) String() string {
	parts := make([]string, 0, len(k.Params)+1)
	parts = append(parts, string(k.Resource))
	for _, p := range k.Params {
		parts = append(parts, strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(parts, keySep)
}

func resourcePrefix(res Resource) string {
	return string(res) + keySep
}

func belongsTo(key string, res Resource) bool {
	return key == string(res) || strings.HasPrefix(key, resourcePrefix(res))
}
