package domain

type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// Cart is a platform cart with its lines flattened.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartItem `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
}

type CartItem struct {
	ID          string          `json:"id"`
	Quantity    int             `json:"quantity"`
	Cost        CartItemCost    `json:"cost"`
	Merchandise CartMerchandise `json:"merchandise"`
}

type CartItemCost struct {
	TotalAmount Money `json:"totalAmount"`
}

type CartMerchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         CartProduct      `json:"product"`
}

type CartProduct struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

// LineInput adds merchandise to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
}

// LineUpdate changes the quantity of an existing cart line.
type LineUpdate struct {
	ID            string `json:"id" binding:"required"`
	MerchandiseID string `json:"merchandiseId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"min=0"`
}
