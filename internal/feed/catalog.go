package feed

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/service"
)

// CatalogFetcher adapts the product service to the Fetcher interface so a
// Controller can page through the live catalogue.
type CatalogFetcher struct {
	products service.ProductService
	pageSize int
	role     model.Role
}

// NewCatalogFetcher creates a fetcher serving pages of the given size as
// seen by the given role.
func NewCatalogFetcher(products service.ProductService, pageSize int, role model.Role) *CatalogFetcher {
	return &CatalogFetcher{products: products, pageSize: pageSize, role: role}
}

func (f *CatalogFetcher) FetchPage(ctx context.Context, page int, q Query) (*Page, error) {
	result, err := f.products.List(ctx, model.ProductQuery{
		Page:   page,
		Limit:  f.pageSize,
		Search: q.Search,
		Sort:   q.Sort,
		Role:   f.role,
	})
	if err != nil {
		return nil, err
	}

	return &Page{
		Products: result.Products,
		Total:    result.Total,
		HasMore:  result.HasMore,
	}, nil
}
