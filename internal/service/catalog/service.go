package catalog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/shopify"
)

// Service serves read-only catalog data. Results are cached under the
// collections/products tags and dropped when Revalidate sees a matching
// webhook topic.
type Service struct {
	client      shopify.Fetcher
	cache       *cache.Loader
	storeDomain string
	logger      logr.Logger
	now         func() time.Time
}

// New builds a Service. loader may be nil, which disables caching.
// storeDomain is stripped from menu URLs.
func New(client shopify.Fetcher, loader *cache.Loader, storeDomain string, logger logr.Logger) *Service {
	return &Service{
		client:      client,
		cache:       loader,
		storeDomain: storeDomain,
		logger:      logger.WithName("catalog"),
		now:         time.Now,
	}
}

// ProductsInput filters and orders a product listing.
type ProductsInput struct {
	Query   string
	SortKey string
	Reverse bool
}

// CollectionProductsInput orders the products of one collection.
type CollectionProductsInput struct {
	Collection string
	SortKey    string
	Reverse    bool
}

type collectionPayload struct {
	Collection *shopify.Collection `json:"collection"`
}

type collectionsPayload struct {
	Collections shopify.Connection[*shopify.Collection] `json:"collections"`
}

type collectionProductsPayload struct {
	Collection *struct {
		Products shopify.Connection[*shopify.Product] `json:"products"`
	} `json:"collection"`
}

type productPayload struct {
	Product *shopify.Product `json:"product"`
}

type productsPayload struct {
	Products shopify.Connection[*shopify.Product] `json:"products"`
}

type recommendationsPayload struct {
	ProductRecommendations []*shopify.Product `json:"productRecommendations"`
}

type menuPayload struct {
	Menu *shopify.Menu `json:"menu"`
}

type pagePayload struct {
	PageByHandle *domain.Page `json:"pageByHandle"`
}

type pagesPayload struct {
	Pages shopify.Connection[domain.Page] `json:"pages"`
}

// Collection returns nil when the handle is unknown.
func (s *Service) Collection(ctx context.Context, handle string) (*domain.Collection, error) {
	return cache.Remember(ctx, s.cache, "collection:"+handle, []string{cache.TagCollections},
		func(ctx context.Context) (*domain.Collection, error) {
			data, err := shopify.Query[collectionPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetCollectionQuery,
				Variables: map[string]any{"handle": handle},
			})
			if err != nil {
				return nil, err
			}
			return shopify.ReshapeCollection(data.Collection), nil
		})
}

// CollectionProducts lists the visible products of a collection. An unknown
// collection yields an empty list.
func (s *Service) CollectionProducts(ctx context.Context, in CollectionProductsInput) ([]domain.Product, error) {
	sortKey := in.SortKey
	// Collection product ordering names the creation key differently.
	if sortKey == "CREATED_AT" {
		sortKey = "CREATED"
	}
	key := fmt.Sprintf("collection-products:%s:%s:%t", in.Collection, sortKey, in.Reverse)
	return cache.Remember(ctx, s.cache, key, []string{cache.TagCollections, cache.TagProducts},
		func(ctx context.Context) ([]domain.Product, error) {
			vars := map[string]any{"handle": in.Collection, "reverse": in.Reverse}
			if sortKey != "" {
				vars["sortKey"] = sortKey
			}
			data, err := shopify.Query[collectionProductsPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetCollectionProductsQuery,
				Variables: vars,
			})
			if err != nil {
				return nil, err
			}
			if data.Collection == nil {
				s.logger.Info("no collection found", "collection", in.Collection)
				return []domain.Product{}, nil
			}
			return shopify.ReshapeProducts(shopify.RemoveEdgesAndNodes(data.Collection.Products)), nil
		})
}

// Collections lists the visible collections behind a leading "All" entry
// that points at the unfiltered search page.
func (s *Service) Collections(ctx context.Context) ([]domain.Collection, error) {
	visible, err := cache.Remember(ctx, s.cache, "collections", []string{cache.TagCollections},
		func(ctx context.Context) ([]domain.Collection, error) {
			data, err := shopify.Query[collectionsPayload](ctx, s.client, shopify.Request{
				Query: shopify.GetCollectionsQuery,
			})
			if err != nil {
				return nil, err
			}
			return shopify.ReshapeCollections(shopify.RemoveEdgesAndNodes(data.Collections)), nil
		})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Collection, 0, len(visible)+1)
	out = append(out, domain.Collection{
		Handle:      "",
		Title:       "All",
		Description: "All products",
		SEO:         domain.SEO{Title: "All", Description: "All products"},
		Path:        "/search",
		UpdatedAt:   s.now().UTC().Format(time.RFC3339),
	})
	return append(out, visible...), nil
}

// Menu returns the items of a navigation menu, or an empty list when the
// menu does not exist.
func (s *Service) Menu(ctx context.Context, handle string) ([]domain.Menu, error) {
	return cache.Remember(ctx, s.cache, "menu:"+handle, []string{cache.TagCollections},
		func(ctx context.Context) ([]domain.Menu, error) {
			data, err := shopify.Query[menuPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetMenuQuery,
				Variables: map[string]any{"handle": handle},
			})
			if err != nil {
				return nil, err
			}
			if data.Menu == nil {
				return []domain.Menu{}, nil
			}
			return shopify.ReshapeMenu(data.Menu.Items, s.storeDomain), nil
		})
}

// Page is not cached. It returns nil for an unknown handle.
func (s *Service) Page(ctx context.Context, handle string) (*domain.Page, error) {
	data, err := shopify.Query[pagePayload](ctx, s.client, shopify.Request{
		Query:     shopify.GetPageQuery,
		Variables: map[string]any{"handle": handle},
	})
	if err != nil {
		return nil, err
	}
	return data.PageByHandle, nil
}

func (s *Service) Pages(ctx context.Context) ([]domain.Page, error) {
	data, err := shopify.Query[pagesPayload](ctx, s.client, shopify.Request{
		Query: shopify.GetPagesQuery,
	})
	if err != nil {
		return nil, err
	}
	return shopify.RemoveEdgesAndNodes(data.Pages), nil
}

// Product looks a product up by handle. Hidden products are returned so
// direct links keep working; nil means the handle is unknown.
func (s *Service) Product(ctx context.Context, handle string) (*domain.Product, error) {
	return cache.Remember(ctx, s.cache, "product:"+handle, []string{cache.TagProducts},
		func(ctx context.Context) (*domain.Product, error) {
			data, err := shopify.Query[productPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetProductQuery,
				Variables: map[string]any{"handle": handle},
			})
			if err != nil {
				return nil, err
			}
			return shopify.ReshapeProduct(data.Product, false), nil
		})
}

func (s *Service) ProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	return cache.Remember(ctx, s.cache, "recommendations:"+productID, []string{cache.TagProducts},
		func(ctx context.Context) ([]domain.Product, error) {
			data, err := shopify.Query[recommendationsPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetProductRecommendationsQuery,
				Variables: map[string]any{"productId": productID},
			})
			if err != nil {
				return nil, err
			}
			return shopify.ReshapeProducts(data.ProductRecommendations), nil
		})
}

// Products searches the catalog. Hidden products are left out.
func (s *Service) Products(ctx context.Context, in ProductsInput) ([]domain.Product, error) {
	key := "products:" + strconv.Quote(in.Query) + ":" + in.SortKey + ":" + strconv.FormatBool(in.Reverse)
	return cache.Remember(ctx, s.cache, key, []string{cache.TagProducts},
		func(ctx context.Context) ([]domain.Product, error) {
			vars := map[string]any{"reverse": in.Reverse}
			if in.Query != "" {
				vars["query"] = in.Query
			}
			if in.SortKey != "" {
				vars["sortKey"] = in.SortKey
			}
			data, err := shopify.Query[productsPayload](ctx, s.client, shopify.Request{
				Query:     shopify.GetProductsQuery,
				Variables: vars,
			})
			if err != nil {
				return nil, err
			}
			return shopify.ReshapeProducts(shopify.RemoveEdgesAndNodes(data.Products)), nil
		})
}
