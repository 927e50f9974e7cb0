package shopify

import (
	"regexp"
	"slices"
	"strings"

	"storefront/internal/domain"
)

// RemoveEdgesAndNodes returns the nodes of c in edge order. The result is
// never nil.
func RemoveEdgesAndNodes[T any](c Connection[T]) []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// ReshapeCustomer flattens a raw customer. A nil input yields the zero
// Customer; lists the source omitted stay nil.
func ReshapeCustomer(c *Customer) domain.Customer {
	if c == nil {
		return domain.Customer{}
	}
	out := domain.Customer{
		ID:               c.ID,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		DisplayName:      c.DisplayName,
		Email:            c.Email,
		Phone:            c.Phone,
		AcceptsMarketing: c.AcceptsMarketing,
		CreatedAt:        c.CreatedAt,
		DefaultAddress:   c.DefaultAddress,
	}
	if c.Addresses != nil {
		out.Addresses = RemoveEdgesAndNodes(*c.Addresses)
	}
	if c.Orders != nil {
		raw := RemoveEdgesAndNodes(*c.Orders)
		out.Orders = make([]domain.Order, 0, len(raw))
		for _, o := range raw {
			order := domain.Order{
				ID:                o.ID,
				OrderNumber:       o.OrderNumber,
				ProcessedAt:       o.ProcessedAt,
				FinancialStatus:   o.FinancialStatus,
				FulfillmentStatus: o.FulfillmentStatus,
				TotalPrice:        o.CurrentTotalPrice,
			}
			if o.LineItems != nil {
				order.LineItems = RemoveEdgesAndNodes(*o.LineItems)
			}
			out.Orders = append(out.Orders, order)
		}
	}
	return out
}

// ReshapeCart flattens cart lines and fills in a zero tax amount in the
// cart's currency when the platform omitted it.
func ReshapeCart(c *Cart) *domain.Cart {
	if c == nil {
		return nil
	}
	tax := domain.Money{Amount: "0.0", CurrencyCode: c.Cost.TotalAmount.CurrencyCode}
	if c.Cost.TotalTaxAmount != nil {
		tax = *c.Cost.TotalTaxAmount
	}
	return &domain.Cart{
		ID:          c.ID,
		CheckoutURL: c.CheckoutURL,
		Cost: domain.CartCost{
			SubtotalAmount: c.Cost.SubtotalAmount,
			TotalAmount:    c.Cost.TotalAmount,
			TotalTaxAmount: tax,
		},
		Lines:         RemoveEdgesAndNodes(c.Lines),
		TotalQuantity: c.TotalQuantity,
	}
}

// ReshapeCollection adds the storefront search path.
func ReshapeCollection(c *Collection) *domain.Collection {
	if c == nil {
		return nil
	}
	return &domain.Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		SEO:         c.SEO,
		UpdatedAt:   c.UpdatedAt,
		Path:        "/search/" + c.Handle,
	}
}

// ReshapeCollections reshapes cs in order, skipping nil entries and
// collections whose handle starts with "hidden".
func ReshapeCollections(cs []*Collection) []domain.Collection {
	out := make([]domain.Collection, 0, len(cs))
	for _, c := range cs {
		if c == nil || strings.HasPrefix(c.Handle, "hidden") {
			continue
		}
		out = append(out, *ReshapeCollection(c))
	}
	return out
}

var imageFilename = regexp.MustCompile(`.*/(.*)\..*`)

// ReshapeImages flattens images, deriving alt text from the file name
// when the platform has none.
func ReshapeImages(images Connection[domain.Image], productTitle string) []domain.Image {
	out := RemoveEdgesAndNodes(images)
	for i := range out {
		if out[i].AltText != "" {
			continue
		}
		out[i].AltText = productTitle
		if m := imageFilename.FindStringSubmatch(out[i].URL); m != nil {
			out[i].AltText = productTitle + " - " + m[1]
		}
	}
	return out
}

// ReshapeProduct flattens images and variants. With filterHidden set, a
// product tagged domain.HiddenProductTag yields nil.
func ReshapeProduct(p *Product, filterHidden bool) *domain.Product {
	if p == nil || (filterHidden && slices.Contains(p.Tags, domain.HiddenProductTag)) {
		return nil
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	options := p.Options
	if options == nil {
		options = []domain.ProductOption{}
	}
	return &domain.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		AvailableForSale: p.AvailableForSale,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		Options:          options,
		PriceRange:       p.PriceRange,
		Variants:         RemoveEdgesAndNodes(p.Variants),
		FeaturedImage:    p.FeaturedImage,
		Images:           ReshapeImages(p.Images, p.Title),
		SEO:              p.SEO,
		Tags:             tags,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ReshapeProducts reshapes ps with hidden filtering on, dropping nil and
// hidden entries.
func ReshapeProducts(ps []*Product) []domain.Product {
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if r := ReshapeProduct(p, true); r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// ReshapeMenu turns absolute platform URLs into storefront paths.
func ReshapeMenu(items []MenuItem, storeDomain string) []domain.Menu {
	out := make([]domain.Menu, 0, len(items))
	for _, item := range items {
		path := item.URL
		if storeDomain != "" {
			path = strings.Replace(path, storeDomain, "", 1)
		}
		path = strings.Replace(path, "/collections", "/search", 1)
		path = strings.Replace(path, "/pages", "", 1)
		out = append(out, domain.Menu{Title: item.Title, Path: path})
	}
	return out
}

// UserErrors converts platform user errors to domain errors, or nil when there are none.
func UserErrors(errs []UserError) []domain.UserError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]domain.UserError, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.UserError{Field: e.Field, Message: e.Message, Code: e.Code, Kind: domain.KindPlatform})
	}
	return out
}
