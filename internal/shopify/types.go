package shopify

import "storefront/internal/domain"

// Connection is the platform's paginated list envelope.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

type Edge[T any] struct {
	Node T `json:"node"`
}

// Customer is the raw customer node. Pointer connections distinguish a
// field the query did not select from an empty list.
type Customer struct {
	ID               string                      `json:"id"`
	FirstName        string                      `json:"firstName"`
	LastName         string                      `json:"lastName"`
	DisplayName      string                      `json:"displayName"`
	Email            string                      `json:"email"`
	Phone            string                      `json:"phone"`
	AcceptsMarketing *bool                       `json:"acceptsMarketing"`
	CreatedAt        string                      `json:"createdAt"`
	DefaultAddress   *domain.Address             `json:"defaultAddress"`
	Addresses        *Connection[domain.Address] `json:"addresses"`
	Orders           *Connection[Order]          `json:"orders"`
}

type Order struct {
	ID                string                       `json:"id"`
	OrderNumber       int                          `json:"orderNumber"`
	ProcessedAt       string                       `json:"processedAt"`
	FinancialStatus   string                       `json:"financialStatus"`
	FulfillmentStatus string                       `json:"fulfillmentStatus"`
	CurrentTotalPrice *domain.Money                `json:"currentTotalPrice"`
	LineItems         *Connection[domain.LineItem] `json:"lineItems"`
}

// UserError is a customerUserErrors / userErrors entry.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// AccessToken is a customerAccessToken payload.
type AccessToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Cost        struct {
		SubtotalAmount domain.Money  `json:"subtotalAmount"`
		TotalAmount    domain.Money  `json:"totalAmount"`
		TotalTaxAmount *domain.Money `json:"totalTaxAmount"`
	} `json:"cost"`
	Lines         Connection[domain.CartItem] `json:"lines"`
	TotalQuantity int                         `json:"totalQuantity"`
}

type Collection struct {
	Handle      string     `json:"handle"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SEO         domain.SEO `json:"seo"`
	UpdatedAt   string     `json:"updatedAt"`
}

type Product struct {
	ID               string                            `json:"id"`
	Handle           string                            `json:"handle"`
	AvailableForSale bool                              `json:"availableForSale"`
	Title            string                            `json:"title"`
	Description      string                            `json:"description"`
	DescriptionHTML  string                            `json:"descriptionHtml"`
	Options          []domain.ProductOption            `json:"options"`
	PriceRange       domain.PriceRange                 `json:"priceRange"`
	Variants         Connection[domain.ProductVariant] `json:"variants"`
	FeaturedImage    *domain.Image                     `json:"featuredImage"`
	Images           Connection[domain.Image]          `json:"images"`
	SEO              domain.SEO                        `json:"seo"`
	Tags             []string                          `json:"tags"`
	UpdatedAt        string                            `json:"updatedAt"`
}

type MenuItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Menu struct {
	Items []MenuItem `json:"items"`
}
