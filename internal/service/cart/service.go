package cart

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/shopify"
)

var (
	// ErrEmptyCart is reported when the platform answers a cart mutation without a cart.
	ErrEmptyCart = errors.New("platform returned no cart")
	// ErrNoLines rejects a line mutation that names no lines.
	ErrNoLines = errors.New("lines required")
)

// Service runs cart operations against the platform. The cart id lives in
// a cookie as an opaque value; carts themselves are never stored locally.
type Service struct {
	client shopify.Fetcher
	logger logr.Logger
}

func New(client shopify.Fetcher, logger logr.Logger) *Service {
	return &Service{client: client, logger: logger.WithName("cart")}
}

type getPayload struct {
	Cart *shopify.Cart `json:"cart"`
}

type createPayload struct {
	CartCreate struct {
		Cart *shopify.Cart `json:"cart"`
	} `json:"cartCreate"`
}

type linesAddPayload struct {
	CartLinesAdd struct {
		Cart *shopify.Cart `json:"cart"`
	} `json:"cartLinesAdd"`
}

type linesRemovePayload struct {
	CartLinesRemove struct {
		Cart *shopify.Cart `json:"cart"`
	} `json:"cartLinesRemove"`
}

type linesUpdatePayload struct {
	CartLinesUpdate struct {
		Cart *shopify.Cart `json:"cart"`
	} `json:"cartLinesUpdate"`
}

// Get returns the cart named by the cookie, or nil when there is no cookie
// or the platform no longer knows the cart (it becomes null after checkout).
func (s *Service) Get(ctx context.Context, cookie session.Tokens) (*domain.Cart, error) {
	cartID, ok := cookie.Token()
	if !ok {
		return nil, nil
	}
	data, err := shopify.Query[getPayload](ctx, s.client, shopify.Request{
		Query:     shopify.GetCartQuery,
		Variables: map[string]any{"cartId": cartID},
	})
	if err != nil {
		return nil, err
	}
	if data.Cart == nil {
		s.logger.V(1).Info("cart no longer available", "cartId", cartID)
		return nil, nil
	}
	return shopify.ReshapeCart(data.Cart), nil
}

// Create opens an empty cart and stores its id in the cookie.
func (s *Service) Create(ctx context.Context, cookie session.Tokens) (*domain.Cart, error) {
	data, err := shopify.Query[createPayload](ctx, s.client, shopify.Request{
		Query: shopify.CartCreateMutation,
	})
	if err != nil {
		return nil, err
	}
	c, err := s.reshape(data.CartCreate.Cart, shopify.CartCreateMutation)
	if err != nil {
		return nil, err
	}
	cookie.Set(c.ID, time.Time{})
	return c, nil
}

// AddLines adds merchandise to the cart, creating one first when the
// request carries no cart cookie.
func (s *Service) AddLines(ctx context.Context, cookie session.Tokens, lines []domain.LineInput) (*domain.Cart, error) {
	cartID, ok := cookie.Token()
	if !ok {
		created, err := s.Create(ctx, cookie)
		if err != nil {
			return nil, err
		}
		cartID = created.ID
	}
	data, err := shopify.Query[linesAddPayload](ctx, s.client, shopify.Request{
		Query:     shopify.CartLinesAddMutation,
		Variables: map[string]any{"cartId": cartID, "lines": lines},
	})
	if err != nil {
		return nil, err
	}
	return s.reshape(data.CartLinesAdd.Cart, shopify.CartLinesAddMutation)
}

func (s *Service) RemoveLines(ctx context.Context, cookie session.Tokens, lineIDs []string) (*domain.Cart, error) {
	cartID, ok := cookie.Token()
	if !ok {
		return nil, domain.ErrNoCart
	}
	ids := make([]string, 0, len(lineIDs))
	for _, id := range lineIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoLines
	}
	data, err := shopify.Query[linesRemovePayload](ctx, s.client, shopify.Request{
		Query:     shopify.CartLinesRemoveMutation,
		Variables: map[string]any{"cartId": cartID, "lineIds": ids},
	})
	if err != nil {
		return nil, err
	}
	return s.reshape(data.CartLinesRemove.Cart, shopify.CartLinesRemoveMutation)
}

// UpdateLines changes line quantities. A quantity of zero removes the line
// on the platform side.
func (s *Service) UpdateLines(ctx context.Context, cookie session.Tokens, lines []domain.LineUpdate) (*domain.Cart, error) {
	cartID, ok := cookie.Token()
	if !ok {
		return nil, domain.ErrNoCart
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	data, err := shopify.Query[linesUpdatePayload](ctx, s.client, shopify.Request{
		Query:     shopify.CartLinesUpdateMutation,
		Variables: map[string]any{"cartId": cartID, "lines": lines},
	})
	if err != nil {
		return nil, err
	}
	return s.reshape(data.CartLinesUpdate.Cart, shopify.CartLinesUpdateMutation)
}

func (s *Service) reshape(c *shopify.Cart, query string) (*domain.Cart, error) {
	if c == nil {
		return nil, &shopify.Error{
			Cause:   shopify.CauseDecode,
			Status:  http.StatusInternalServerError,
			Message: ErrEmptyCart.Error(),
			Query:   query,
			Err:     ErrEmptyCart,
		}
	}
	return shopify.ReshapeCart(c), nil
}
