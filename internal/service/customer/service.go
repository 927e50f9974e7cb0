package customer

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-logr/logr"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/shopify"
)

// ErrMissingToken is reported when the platform accepted a login but
// returned no access token.
var ErrMissingToken = errors.New("platform returned no access token")

// Service runs customer account and session operations against the platform.
// Validation failures come back as data in the result's Errors; transport
// failures come back as *shopify.Error.
type Service struct {
	client shopify.Fetcher
	tokens *tokenManager
	logger logr.Logger
}

func New(client shopify.Fetcher, logger logr.Logger) *Service {
	logger = logger.WithName("customer")
	return &Service{client: client, tokens: newTokenManager(logger), logger: logger}
}

// LoginInput is the credential pair for token creation.
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateInput registers a new customer account.
type CreateInput struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Phone            string `json:"phone,omitempty"`
	AcceptsMarketing *bool  `json:"acceptsMarketing,omitempty"`
}

// UpdateInput carries only the profile fields to change.
type UpdateInput struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Email            *string `json:"email,omitempty"`
	Password         *string `json:"password,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	AcceptsMarketing *bool   `json:"acceptsMarketing,omitempty"`
}

// ResetInput completes a password recovery started with Recover.
type ResetInput struct {
	ID         string `json:"id" binding:"required"`
	ResetToken string `json:"resetToken" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// AddressInput mirrors the platform's MailingAddressInput.
type AddressInput struct {
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

type LoginResult struct {
	AccessToken string             `json:"accessToken,omitempty"`
	ExpiresAt   string             `json:"expiresAt,omitempty"`
	Errors      []domain.UserError `json:"errors,omitempty"`
}

type CustomerResult struct {
	Customer *domain.Customer  `json:"customer,omitempty"`
	Errors   []domain.UserError `json:"errors,omitempty"`
}

type SuccessResult struct {
	Success bool               `json:"success"`
	Errors  []domain.UserError `json:"errors,omitempty"`
}

type AddressResult struct {
	Address *domain.Address    `json:"customerAddress,omitempty"`
	Errors  []domain.UserError `json:"errors,omitempty"`
}

type DeleteAddressResult struct {
	Success          bool               `json:"success"`
	DeletedAddressID string             `json:"deletedCustomerAddressId,omitempty"`
	Errors           []domain.UserError `json:"errors,omitempty"`
}

func notLoggedIn() []domain.UserError {
	return []domain.UserError{domain.NotLoggedIn()}
}

// Login exchanges credentials for an access token and stores it in tokens.
// Rejected credentials are returned as Errors and leave tokens untouched.
func (s *Service) Login(ctx context.Context, tokens session.Tokens, in LoginInput) (LoginResult, error) {
	data, err := shopify.Query[tokenCreatePayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerAccessTokenCreateMutation,
		Variables: map[string]any{
			"input": map[string]any{"email": in.Email, "password": in.Password},
		},
	})
	if err != nil {
		return LoginResult{}, err
	}
	payload := data.CustomerAccessTokenCreate
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return LoginResult{Errors: errs}, nil
	}
	if payload.CustomerAccessToken == nil {
		return LoginResult{}, missingToken(shopify.CustomerAccessTokenCreateMutation)
	}

	s.tokens.Issue(tokens, *payload.CustomerAccessToken)
	return LoginResult{
		AccessToken: payload.CustomerAccessToken.AccessToken,
		ExpiresAt:   payload.CustomerAccessToken.ExpiresAt,
	}, nil
}

// Create registers a customer. It does not log the customer in.
func (s *Service) Create(ctx context.Context, in CreateInput) (CustomerResult, error) {
	data, err := shopify.Query[customerCreatePayload](ctx, s.client, shopify.Request{
		Query:     shopify.CustomerCreateMutation,
		Variables: map[string]any{"input": in},
	})
	if err != nil {
		return CustomerResult{}, err
	}
	payload := data.CustomerCreate
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return CustomerResult{Errors: errs}, nil
	}
	c := shopify.ReshapeCustomer(payload.Customer)
	return CustomerResult{Customer: &c}, nil
}

// Logout revokes the stored token remotely and always clears it locally.
// Without a token it succeeds without calling the platform; it reports false
// only when the remote call failed.
func (s *Service) Logout(ctx context.Context, tokens session.Tokens) bool {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return true
	}
	_, err := s.client.Fetch(ctx, shopify.Request{
		Query:     shopify.CustomerAccessTokenDeleteMutation,
		Variables: map[string]any{"customerAccessToken": token},
	})
	s.tokens.Revoke(tokens)
	if err != nil {
		s.logger.Info("remote token revoke failed", "error", err.Error())
		return false
	}
	return true
}

// Get returns the customer bound to the stored token, or nil when there is
// no token or the lookup fails for any reason.
func (s *Service) Get(ctx context.Context, tokens session.Tokens) *domain.Customer {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return nil
	}
	data, err := shopify.Query[customerPayload](ctx, s.client, shopify.Request{
		Query:     shopify.GetCustomerQuery,
		Variables: map[string]any{"customerAccessToken": token},
	})
	if err != nil {
		s.logger.V(1).Info("customer lookup failed", "error", err.Error())
		return nil
	}
	if data.Customer == nil {
		return nil
	}
	c := shopify.ReshapeCustomer(data.Customer)
	return &c
}

// Update changes profile fields of the logged-in customer. A password change
// makes the platform issue a new token, which replaces the stored one.
func (s *Service) Update(ctx context.Context, tokens session.Tokens, in UpdateInput) (CustomerResult, error) {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return CustomerResult{Errors: notLoggedIn()}, nil
	}
	data, err := shopify.Query[customerUpdatePayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerUpdateMutation,
		Variables: map[string]any{
			"customerAccessToken": token,
			"customer":            in,
		},
	})
	if err != nil {
		return CustomerResult{}, err
	}
	payload := data.CustomerUpdate
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return CustomerResult{Errors: errs}, nil
	}
	if payload.CustomerAccessToken != nil && payload.CustomerAccessToken.AccessToken != "" {
		s.tokens.Issue(tokens, *payload.CustomerAccessToken)
	}
	c := shopify.ReshapeCustomer(payload.Customer)
	return CustomerResult{Customer: &c}, nil
}

// Recover asks the platform to email a password reset link.
func (s *Service) Recover(ctx context.Context, email string) (SuccessResult, error) {
	data, err := shopify.Query[recoverPayload](ctx, s.client, shopify.Request{
		Query:     shopify.CustomerRecoverMutation,
		Variables: map[string]any{"email": email},
	})
	if err != nil {
		return SuccessResult{}, err
	}
	if errs := shopify.UserErrors(data.CustomerRecover.CustomerUserErrors); errs != nil {
		return SuccessResult{Success: false, Errors: errs}, nil
	}
	return SuccessResult{Success: true}, nil
}

// Reset sets a new password from a recovery token and logs the customer in.
func (s *Service) Reset(ctx context.Context, tokens session.Tokens, in ResetInput) (LoginResult, error) {
	data, err := shopify.Query[resetPayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerResetMutation,
		Variables: map[string]any{
			"id":    in.ID,
			"input": map[string]any{"resetToken": in.ResetToken, "password": in.Password},
		},
	})
	if err != nil {
		return LoginResult{}, err
	}
	payload := data.CustomerReset
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return LoginResult{Errors: errs}, nil
	}
	if payload.CustomerAccessToken == nil {
		return LoginResult{}, missingToken(shopify.CustomerResetMutation)
	}
	s.tokens.Issue(tokens, *payload.CustomerAccessToken)
	return LoginResult{
		AccessToken: payload.CustomerAccessToken.AccessToken,
		ExpiresAt:   payload.CustomerAccessToken.ExpiresAt,
	}, nil
}

func (s *Service) CreateAddress(ctx context.Context, tokens session.Tokens, in AddressInput) (AddressResult, error) {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return AddressResult{Errors: notLoggedIn()}, nil
	}
	data, err := shopify.Query[addressCreatePayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerAddressCreateMutation,
		Variables: map[string]any{
			"customerAccessToken": token,
			"address":             in,
		},
	})
	if err != nil {
		return AddressResult{}, err
	}
	payload := data.CustomerAddressCreate
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return AddressResult{Errors: errs}, nil
	}
	return AddressResult{Address: payload.CustomerAddress}, nil
}

func (s *Service) UpdateAddress(ctx context.Context, tokens session.Tokens, id string, in AddressInput) (AddressResult, error) {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return AddressResult{Errors: notLoggedIn()}, nil
	}
	data, err := shopify.Query[addressUpdatePayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerAddressUpdateMutation,
		Variables: map[string]any{
			"customerAccessToken": token,
			"id":                  id,
			"address":             in,
		},
	})
	if err != nil {
		return AddressResult{}, err
	}
	payload := data.CustomerAddressUpdate
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return AddressResult{Errors: errs}, nil
	}
	return AddressResult{Address: payload.CustomerAddress}, nil
}

func (s *Service) DeleteAddress(ctx context.Context, tokens session.Tokens, id string) (DeleteAddressResult, error) {
	token, ok := s.tokens.Current(tokens)
	if !ok {
		return DeleteAddressResult{Errors: notLoggedIn()}, nil
	}
	data, err := shopify.Query[addressDeletePayload](ctx, s.client, shopify.Request{
		Query: shopify.CustomerAddressDeleteMutation,
		Variables: map[string]any{
			"customerAccessToken": token,
			"id":                  id,
		},
	})
	if err != nil {
		return DeleteAddressResult{}, err
	}
	payload := data.CustomerAddressDelete
	if errs := shopify.UserErrors(payload.CustomerUserErrors); errs != nil {
		return DeleteAddressResult{Success: false, Errors: errs}, nil
	}
	return DeleteAddressResult{Success: true, DeletedAddressID: payload.DeletedCustomerAddressID}, nil
}

func missingToken(query string) error {
	return &shopify.Error{
		Cause:   shopify.CauseDecode,
		Status:  http.StatusInternalServerError,
		Message: ErrMissingToken.Error(),
		Query:   query,
		Err:     ErrMissingToken,
	}
}
