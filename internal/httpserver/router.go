package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
	"storefront/internal/service/catalog"
	"storefront/internal/service/customer"
	"storefront/internal/session"
)

type customerService interface {
	Login(ctx context.Context, tokens session.Tokens, in customer.LoginInput) (customer.LoginResult, error)
	Create(ctx context.Context, in customer.CreateInput) (customer.CustomerResult, error)
	Logout(ctx context.Context, tokens session.Tokens) bool
	Get(ctx context.Context, tokens session.Tokens) *domain.Customer
	Update(ctx context.Context, tokens session.Tokens, in customer.UpdateInput) (customer.CustomerResult, error)
	Recover(ctx context.Context, email string) (customer.SuccessResult, error)
	Reset(ctx context.Context, tokens session.Tokens, in customer.ResetInput) (customer.LoginResult, error)
	CreateAddress(ctx context.Context, tokens session.Tokens, in customer.AddressInput) (customer.AddressResult, error)
	UpdateAddress(ctx context.Context, tokens session.Tokens, id string, in customer.AddressInput) (customer.AddressResult, error)
	DeleteAddress(ctx context.Context, tokens session.Tokens, id string) (customer.DeleteAddressResult, error)
}

type cartService interface {
	Get(ctx context.Context, cookie session.Tokens) (*domain.Cart, error)
	AddLines(ctx context.Context, cookie session.Tokens, lines []domain.LineInput) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cookie session.Tokens, lineIDs []string) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cookie session.Tokens, lines []domain.LineUpdate) (*domain.Cart, error)
}

type catalogService interface {
	Collection(ctx context.Context, handle string) (*domain.Collection, error)
	CollectionProducts(ctx context.Context, in catalog.CollectionProductsInput) ([]domain.Product, error)
	Collections(ctx context.Context) ([]domain.Collection, error)
	Menu(ctx context.Context, handle string) ([]domain.Menu, error)
	Page(ctx context.Context, handle string) (*domain.Page, error)
	Pages(ctx context.Context) ([]domain.Page, error)
	Product(ctx context.Context, handle string) (*domain.Product, error)
	ProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error)
	Products(ctx context.Context, in catalog.ProductsInput) ([]domain.Product, error)
	Revalidate(ctx context.Context, topic string) (catalog.RevalidateResult, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ customerService = (*customer.Service)(nil)
	_ cartService     = (*cart.Service)(nil)
	_ catalogService  = (*catalog.Service)(nil)
)

// Deps carries the services and settings the routes need. Nil services
// leave their routes unregistered.
type Deps struct {
	CustomerSvc customerService
	CartSvc     cartService
	CatalogSvc  catalogService
	Cache       pinger
	Gatherer    prometheus.Gatherer

	RevalidationSecret string
	SecureCookies      bool
	AllowedOrigins     []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	// Platform ids are gid:// URIs; clients send them path-escaped.
	router.UseRawPath = true
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = deps.AllowedOrigins
		cfg.AllowCredentials = true
		cfg.AddAllowHeaders(requestIDHeader)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		router.Use(cors.New(cfg))
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Cache))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	cookies := cookieJar{secure: deps.SecureCookies}

	if deps.CustomerSvc != nil {
		h := &authHandler{svc: deps.CustomerSvc, cookies: cookies, logger: logger}
		auth := api.Group("/auth")
		auth.GET("", h.get)
		auth.POST("", h.dispatch)
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
		auth.POST("/logout", h.logout)
		auth.POST("/recover", h.recoverPassword)
		auth.POST("/reset", h.reset)

		account := api.Group("/account")
		account.PUT("", h.update)
		account.POST("/addresses", h.createAddress)
		account.PUT("/addresses/:id", h.updateAddress)
		account.DELETE("/addresses/:id", h.deleteAddress)
	}

	if deps.CartSvc != nil {
		h := &cartHandler{svc: deps.CartSvc, cookies: cookies, logger: logger}
		api.GET("/cart", h.get)
		api.POST("/cart/lines", h.addLines)
		api.PUT("/cart/lines", h.updateLines)
		api.DELETE("/cart/lines", h.removeLines)
	}

	if deps.CatalogSvc != nil {
		h := &catalogHandler{svc: deps.CatalogSvc, logger: logger}
		api.GET("/products", h.search)
		api.GET("/products/:handle", h.product)
		api.GET("/products/:handle/recommendations", h.recommendations)
		api.GET("/collections", h.collections)
		api.GET("/collections/:handle", h.collection)
		api.GET("/collections/:handle/products", h.collectionProducts)
		api.GET("/search", h.search)
		api.GET("/search/:handle", h.collectionProducts)
		api.GET("/sorting", h.sorting)
		api.GET("/menus/:handle", h.menu)
		api.GET("/pages", h.pages)
		api.GET("/pages/:handle", h.page)

		rh := &revalidateHandler{svc: deps.CatalogSvc, secret: deps.RevalidationSecret, logger: logger}
		api.POST("/revalidate", rh.revalidate)
	}

	return router, nil
}
