package query

// Mutation names a kind of write against the remote store.
type Mutation string

const (
	MutationCreateProduct  Mutation = "product.create"
	MutationUpdateProduct  Mutation = "product.update"
	MutationDeleteProduct  Mutation = "product.delete"
	MutationAssignCategory Mutation = "category.assign"
	MutationCreateCategory Mutation = "category.create"
	MutationSaveDetails    Mutation = "details.save"
	MutationDeleteDetails  Mutation = "details.delete"
)

// Effect lists what a mutation makes stale. Resources are dropped whole;
// Keyed resources are dropped only for the params passed to Apply.
type Effect struct {
	Resources []Resource
	Keyed     []Resource
}

var effects = map[Mutation]Effect{
	MutationCreateProduct: {
		Resources: []Resource{ResourceProducts, ResourceProductsByCategory, ResourceSitemap},
	},
	MutationUpdateProduct: {
		Resources: []Resource{ResourceProducts, ResourceProductsByCategory, ResourceSitemap},
		Keyed:     []Resource{ResourceProduct, ResourceProductWithDetails},
	},
	MutationDeleteProduct: {
		Resources: []Resource{ResourceProducts, ResourceProductsByCategory, ResourceSitemap},
		Keyed:     []Resource{ResourceProduct, ResourceProductDetails, ResourceProductWithDetails},
	},
	MutationAssignCategory: {
		Keyed: []Resource{ResourceProductsByCategory},
	},
	MutationCreateCategory: {
		Resources: []Resource{ResourceCategories, ResourceCategory, ResourceProductsByCategory, ResourceSitemap},
	},
	MutationSaveDetails: {
		Keyed: []Resource{ResourceProductDetails, ResourceProductWithDetails},
	},
	MutationDeleteDetails: {
		Keyed: []Resource{ResourceProductDetails, ResourceProductWithDetails},
	},
}

// Effects returns the invalidation footprint of m.
func Effects(m Mutation) Effect {
	return effects[m]
}

// Apply invalidates everything m affects. params identify the touched entity
// (a product id, a category slug); without params keyed resources are dropped whole.
func (c *Client) Apply(m Mutation, params ...string) {
	eff := Effects(m)
	c.InvalidateResource(eff.Resources...)
	for _, res := range eff.Keyed {
		if len(params) == 0 {
			c.InvalidateResource(res)
			continue
		}
		c.Invalidate(NewKey(res, params...))
	}
}
