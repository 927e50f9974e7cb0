package domain

// Money is an opaque decimal amount paired with its ISO currency code.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Address is a customer mailing address owned by the platform.
type Address struct {
	ID        string `json:"id"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Company   string `json:"company,omitempty"`
	Country   string `json:"country,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Province  string `json:"province,omitempty"`
	Zip       string `json:"zip,omitempty"`
}

// Customer is the flattened customer profile returned to clients.
// Addresses and Orders stay nil when the source omitted them.
type Customer struct {
	ID               string    `json:"id,omitempty"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	DisplayName      string    `json:"displayName,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	AcceptsMarketing *bool     `json:"acceptsMarketing,omitempty"`
	CreatedAt        string    `json:"createdAt,omitempty"`
	DefaultAddress   *Address  `json:"defaultAddress,omitempty"`
	Addresses        []Address `json:"addresses,omitzero"`
	Orders           []Order   `json:"orders,omitzero"`
}

// Order is a read-only projection of a past customer order.
type Order struct {
	ID                string     `json:"id"`
	OrderNumber       int        `json:"orderNumber,omitempty"`
	ProcessedAt       string     `json:"processedAt,omitempty"`
	FinancialStatus   string     `json:"financialStatus,omitempty"`
	FulfillmentStatus string     `json:"fulfillmentStatus,omitempty"`
	TotalPrice        *Money     `json:"totalPrice,omitempty"`
	LineItems         []LineItem `json:"lineItems,omitzero"`
}

type LineItem struct {
	Title    string           `json:"title,omitempty"`
	Quantity int              `json:"quantity,omitempty"`
	Variant  *LineItemVariant `json:"variant,omitempty"`
}

type LineItemVariant struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Image *Image `json:"image,omitempty"`
	Price *Money `json:"price,omitempty"`
}
