package customer

import (
	"storefront/internal/domain"
	"storefront/internal/shopify"
)

type tokenCreatePayload struct {
	CustomerAccessTokenCreate struct {
		CustomerAccessToken *shopify.AccessToken `json:"customerAccessToken"`
		CustomerUserErrors  []shopify.UserError  `json:"customerUserErrors"`
	} `json:"customerAccessTokenCreate"`
}

type customerCreatePayload struct {
	CustomerCreate struct {
		Customer           *shopify.Customer   `json:"customer"`
		CustomerUserErrors []shopify.UserError `json:"customerUserErrors"`
	} `json:"customerCreate"`
}

type customerUpdatePayload struct {
	CustomerUpdate struct {
		Customer            *shopify.Customer    `json:"customer"`
		CustomerAccessToken *shopify.AccessToken `json:"customerAccessToken"`
		CustomerUserErrors  []shopify.UserError  `json:"customerUserErrors"`
	} `json:"customerUpdate"`
}

type customerPayload struct {
	Customer *shopify.Customer `json:"customer"`
}

type recoverPayload struct {
	CustomerRecover struct {
		CustomerUserErrors []shopify.UserError `json:"customerUserErrors"`
	} `json:"customerRecover"`
}

type resetPayload struct {
	CustomerReset struct {
		Customer            *shopify.Customer    `json:"customer"`
		CustomerAccessToken *shopify.AccessToken `json:"customerAccessToken"`
		CustomerUserErrors  []shopify.UserError  `json:"customerUserErrors"`
	} `json:"customerReset"`
}

type addressCreatePayload struct {
	CustomerAddressCreate struct {
		CustomerAddress    *domain.Address     `json:"customerAddress"`
		CustomerUserErrors []shopify.UserError `json:"customerUserErrors"`
	} `json:"customerAddressCreate"`
}

type addressUpdatePayload struct {
	CustomerAddressUpdate struct {
		CustomerAddress    *domain.Address     `json:"customerAddress"`
		CustomerUserErrors []shopify.UserError `json:"customerUserErrors"`
	} `json:"customerAddressUpdate"`
}

type addressDeletePayload struct {
	CustomerAddressDelete struct {
		DeletedCustomerAddressID string              `json:"deletedCustomerAddressId"`
		CustomerUserErrors       []shopify.UserError `json:"customerUserErrors"`
	} `json:"customerAddressDelete"`
}
