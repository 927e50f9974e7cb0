package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
	"storefront/internal/service/catalog"
	"storefront/internal/session"
)

type stubCartService struct {
	cart      *domain.Cart
	err       error
	lastLines []domain.LineInput
}

func (s *stubCartService) Get(_ context.Context, cookie session.Tokens) (*domain.Cart, error) {
	if _, ok := cookie.Token(); !ok {
		return nil, nil
	}
	return s.cart, s.err
}

func (s *stubCartService) AddLines(_ context.Context, cookie session.Tokens, lines []domain.LineInput) (*domain.Cart, error) {
	s.lastLines = lines
	if _, ok := cookie.Token(); !ok {
		cookie.Set(s.cart.ID, time.Time{})
	}
	return s.cart, s.err
}

func (s *stubCartService) RemoveLines(_ context.Context, cookie session.Tokens, _ []string) (*domain.Cart, error) {
	if _, ok := cookie.Token(); !ok {
		return nil, domain.ErrNoCart
	}
	return s.cart, s.err
}

func (s *stubCartService) UpdateLines(_ context.Context, cookie session.Tokens, _ []domain.LineUpdate) (*domain.Cart, error) {
	if _, ok := cookie.Token(); !ok {
		return nil, domain.ErrNoCart
	}
	return s.cart, s.err
}

type stubCatalogService struct {
	products      []domain.Product
	product       *domain.Product
	revalidate    catalog.RevalidateResult
	revalidateErr error

	lastProducts catalog.ProductsInput
	lastTopic    string
	recommended  string
}

func (s *stubCatalogService) Collection(context.Context, string) (*domain.Collection, error) {
	return nil, nil
}

func (s *stubCatalogService) CollectionProducts(context.Context, catalog.CollectionProductsInput) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubCatalogService) Collections(context.Context) ([]domain.Collection, error) {
	return []domain.Collection{{Title: "All", Path: "/search"}}, nil
}

func (s *stubCatalogService) Menu(context.Context, string) ([]domain.Menu, error) {
	return []domain.Menu{{Title: "Shirts", Path: "/search/shirts"}}, nil
}

func (s *stubCatalogService) Page(context.Context, string) (*domain.Page, error) {
	return nil, nil
}

func (s *stubCatalogService) Pages(context.Context) ([]domain.Page, error) {
	return []domain.Page{}, nil
}

func (s *stubCatalogService) Product(context.Context, string) (*domain.Product, error) {
	return s.product, nil
}

func (s *stubCatalogService) ProductRecommendations(_ context.Context, productID string) ([]domain.Product, error) {
	s.recommended = productID
	return s.products, nil
}

func (s *stubCatalogService) Products(_ context.Context, in catalog.ProductsInput) ([]domain.Product, error) {
	s.lastProducts = in
	return s.products, nil
}

func (s *stubCatalogService) Revalidate(_ context.Context, topic string) (catalog.RevalidateResult, error) {
	s.lastTopic = topic
	return s.revalidate, s.revalidateErr
}

func TestCart_Get(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	router := newTestRouter(t, Deps{CartSvc: svc})

	rec := serve(router, http.MethodGet, "/api/cart", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"cart":null}` {
		t.Fatalf("expected null cart, got %d %s", rec.Code, rec.Body.String())
	}
	rec = serve(router, http.MethodGet, "/api/cart", "", "Cookie", "cartId=cart-1")
	if !strings.Contains(rec.Body.String(), `"id":"cart-1"`) {
		t.Fatalf("expected cart, got %s", rec.Body.String())
	}
}

func TestCart_AddLinesSetsCookie(t *testing.T) {
	svc := &stubCartService{cart: &domain.Cart{ID: "cart-1"}}
	rec := serve(newTestRouter(t, Deps{CartSvc: svc}), http.MethodPost, "/api/cart/lines", `{"lines":[{"merchandiseId":"var-1","quantity":2}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, "cartId=cart-1") || strings.Contains(cookie, "Expires") {
		t.Fatalf("expected session cart cookie, got %q", cookie)
	}
	if len(svc.lastLines) != 1 || svc.lastLines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", svc.lastLines)
	}
}

func TestCart_AddLinesValidation(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCartService{cart: &domain.Cart{ID: "cart-1"}}})
	for _, body := range []string{`{"lines":[]}`, `{"lines":[{"merchandiseId":"var-1","quantity":0}]}`, `{}`} {
		if rec := serve(router, http.MethodPost, "/api/cart/lines", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, rec.Code)
		}
	}
}

func TestCart_MutationsWithoutCart(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCartService{}})
	rec := serve(router, http.MethodDelete, "/api/cart/lines", `{"lineIds":["line-1"]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = serve(router, http.MethodPut, "/api/cart/lines", `{"lines":[{"id":"line-1","merchandiseId":"var-1","quantity":1}]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCart_ServiceErrors(t *testing.T) {
	router := newTestRouter(t, Deps{CartSvc: &stubCartService{err: cart.ErrNoLines}})
	rec := serve(router, http.MethodDelete, "/api/cart/lines", `{"lineIds":[" "]}`, "Cookie", "cartId=cart-1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	router = newTestRouter(t, Deps{CartSvc: &stubCartService{err: errors.New("boom")}})
	rec = serve(router, http.MethodDelete, "/api/cart/lines", `{"lineIds":["line-1"]}`, "Cookie", "cartId=cart-1")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec.Body.String()); body["error"] != "Error removing item from cart" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestSearch_UsesSortPreset(t *testing.T) {
	svc := &stubCatalogService{products: []domain.Product{{Handle: "shirt"}}}
	rec := serve(newTestRouter(t, Deps{CatalogSvc: svc}), http.MethodGet, "/api/search?q=shirt&sort=price-desc", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"handle":"shirt"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
	want := catalog.ProductsInput{Query: "shirt", SortKey: "PRICE", Reverse: true}
	if svc.lastProducts != want {
		t.Fatalf("expected %+v, got %+v", want, svc.lastProducts)
	}
}

func TestProduct_NotFound(t *testing.T) {
	rec := serve(newTestRouter(t, Deps{CatalogSvc: &stubCatalogService{}}), http.MethodGet, "/api/products/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecommendations_ResolveProductID(t *testing.T) {
	svc := &stubCatalogService{product: &domain.Product{ID: "gid://shopify/Product/1", Handle: "shirt"}}
	rec := serve(newTestRouter(t, Deps{CatalogSvc: svc}), http.MethodGet, "/api/products/shirt/recommendations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.recommended != "gid://shopify/Product/1" {
		t.Fatalf("expected lookup by product id, got %q", svc.recommended)
	}
}

func TestMenuAndCollections(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalogService{}})
	if rec := serve(router, http.MethodGet, "/api/menus/main-menu", ""); !strings.Contains(rec.Body.String(), `"path":"/search/shirts"`) {
		t.Fatalf("unexpected menu body %s", rec.Body.String())
	}
	if rec := serve(router, http.MethodGet, "/api/collections", ""); !strings.Contains(rec.Body.String(), `"title":"All"`) {
		t.Fatalf("unexpected collections body %s", rec.Body.String())
	}
	if rec := serve(router, http.MethodGet, "/api/collections/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/api/pages/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRevalidate(t *testing.T) {
	svc := &stubCatalogService{revalidate: catalog.RevalidateResult{Revalidated: true, Now: 1700000000000}}
	router := newTestRouter(t, Deps{CatalogSvc: svc, RevalidationSecret: "s3cret"})

	rec := serve(router, http.MethodPost, "/api/revalidate?secret=wrong", "", topicHeader, "products/update")
	if rec.Code != http.StatusUnauthorized || svc.lastTopic != "" {
		t.Fatalf("expected 401 without invalidation, got %d topic=%q", rec.Code, svc.lastTopic)
	}
	if rec := serve(router, http.MethodPost, "/api/revalidate", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", rec.Code)
	}

	rec = serve(router, http.MethodPost, "/api/revalidate?secret=s3cret", "", topicHeader, "products/update")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec.Body.String())
	if body["revalidated"] != true || body["now"] != float64(1700000000000) || svc.lastTopic != "products/update" {
		t.Fatalf("unexpected body %v topic=%q", body, svc.lastTopic)
	}

	svc.revalidate = catalog.RevalidateResult{}
	rec = serve(router, http.MethodPost, "/api/revalidate?secret=s3cret", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":200}` {
		t.Fatalf("expected plain 200, got %d %s", rec.Code, rec.Body.String())
	}
	if svc.lastTopic != "unknown" {
		t.Fatalf("expected unknown topic, got %q", svc.lastTopic)
	}
}

func TestRevalidate_NoSecretConfigured(t *testing.T) {
	router := newTestRouter(t, Deps{CatalogSvc: &stubCatalogService{}})
	if rec := serve(router, http.MethodPost, "/api/revalidate?secret=anything", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
