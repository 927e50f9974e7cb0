package shopify

import "github.com/MakeNowJust/heredoc/v2"

// Fragments shared by the documents below. Each document appends every
// fragment it spreads exactly once.
var (
	imageFragment = heredoc.Doc(`
		fragment image on Image {
		  url
		  altText
		  width
		  height
		}
	`)

	seoFragment = heredoc.Doc(`
		fragment seo on SEO {
		  description
		  title
		}
	`)

	productFragment = heredoc.Doc(`
		fragment product on Product {
		  id
		  handle
		  availableForSale
		  title
		  description
		  descriptionHtml
		  options {
		    id
		    name
		    values
		  }
		  priceRange {
		    maxVariantPrice {
		      amount
		      currencyCode
		    }
		    minVariantPrice {
		      amount
		      currencyCode
		    }
		  }
		  variants(first: 250) {
		    edges {
		      node {
		        id
		        title
		        availableForSale
		        selectedOptions {
		          name
		          value
		        }
		        price {
		          amount
		          currencyCode
		        }
		      }
		    }
		  }
		  featuredImage {
		    ...image
		  }
		  images(first: 20) {
		    edges {
		      node {
		        ...image
		      }
		    }
		  }
		  seo {
		    ...seo
		  }
		  tags
		  updatedAt
		}
	`)

	cartFragment = heredoc.Doc(`
		fragment cart on Cart {
		  id
		  checkoutUrl
		  cost {
		    subtotalAmount {
		      amount
		      currencyCode
		    }
		    totalAmount {
		      amount
		      currencyCode
		    }
		    totalTaxAmount {
		      amount
		      currencyCode
		    }
		  }
		  lines(first: 100) {
		    edges {
		      node {
		        id
		        quantity
		        cost {
		          totalAmount {
		            amount
		            currencyCode
		          }
		        }
		        merchandise {
		          ... on ProductVariant {
		            id
		            title
		            selectedOptions {
		              name
		              value
		            }
		            product {
		              id
		              handle
		              title
		              featuredImage {
		                ...image
		              }
		            }
		          }
		        }
		      }
		    }
		  }
		  totalQuantity
		}
	`)

	collectionFragment = heredoc.Doc(`
		fragment collection on Collection {
		  handle
		  title
		  description
		  seo {
		    ...seo
		  }
		  updatedAt
		}
	`)

	addressFragment = heredoc.Doc(`
		fragment address on MailingAddress {
		  id
		  address1
		  address2
		  city
		  company
		  country
		  firstName
		  lastName
		  phone
		  province
		  zip
		}
	`)

	pageFragment = heredoc.Doc(`
		fragment page on Page {
		  ... on Page {
		    id
		    title
		    handle
		    body
		    bodySummary
		    seo {
		      ...seo
		    }
		    createdAt
		    updatedAt
		  }
		}
	`)

	customerFragment = heredoc.Doc(`
		fragment customer on Customer {
		  id
		  firstName
		  lastName
		  displayName
		  email
		  phone
		  acceptsMarketing
		  createdAt
		  defaultAddress {
		    ...address
		  }
		  addresses(first: 10) {
		    edges {
		      node {
		        ...address
		      }
		    }
		  }
		  orders(first: 5) {
		    edges {
		      node {
		        id
		        orderNumber
		        processedAt
		        financialStatus
		        fulfillmentStatus
		        currentTotalPrice {
		          amount
		          currencyCode
		        }
		        lineItems(first: 5) {
		          edges {
		            node {
		              title
		              quantity
		              variant {
		                id
		                title
		                image {
		                  url
		                  altText
		                  width
		                  height
		                }
		                price {
		                  amount
		                  currencyCode
		                }
		              }
		            }
		          }
		        }
		      }
		    }
		  }
		}
	`)
)

// Customer documents.
var (
	GetCustomerQuery = heredoc.Doc(`
		query getCustomer($customerAccessToken: String!) {
		  customer(customerAccessToken: $customerAccessToken) {
		    ...customer
		  }
		}
	`) + customerFragment + addressFragment

	CustomerCreateMutation = heredoc.Doc(`
		mutation customerCreate($input: CustomerCreateInput!) {
		  customerCreate(input: $input) {
		    customer {
		      id
		      firstName
		      lastName
		      email
		      phone
		      acceptsMarketing
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)

	CustomerUpdateMutation = heredoc.Doc(`
		mutation customerUpdate($customerAccessToken: String!, $customer: CustomerUpdateInput!) {
		  customerUpdate(customerAccessToken: $customerAccessToken, customer: $customer) {
		    customer {
		      id
		      firstName
		      lastName
		      email
		      phone
		      acceptsMarketing
		    }
		    customerAccessToken {
		      accessToken
		      expiresAt
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)

	CustomerAccessTokenCreateMutation = heredoc.Doc(`
		mutation customerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
		  customerAccessTokenCreate(input: $input) {
		    customerAccessToken {
		      accessToken
		      expiresAt
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)

	CustomerAccessTokenDeleteMutation = heredoc.Doc(`
		mutation customerAccessTokenDelete($customerAccessToken: String!) {
		  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
		    deletedAccessToken
		    deletedCustomerAccessTokenId
		    userErrors {
		      field
		      message
		    }
		  }
		}
	`)

	CustomerRecoverMutation = heredoc.Doc(`
		mutation customerRecover($email: String!) {
		  customerRecover(email: $email) {
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)

	CustomerResetMutation = heredoc.Doc(`
		mutation customerReset($id: ID!, $input: CustomerResetInput!) {
		  customerReset(id: $id, input: $input) {
		    customer {
		      id
		      email
		    }
		    customerAccessToken {
		      accessToken
		      expiresAt
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)

	CustomerAddressCreateMutation = heredoc.Doc(`
		mutation customerAddressCreate($customerAccessToken: String!, $address: MailingAddressInput!) {
		  customerAddressCreate(customerAccessToken: $customerAccessToken, address: $address) {
		    customerAddress {
		      ...address
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`) + addressFragment

	CustomerAddressUpdateMutation = heredoc.Doc(`
		mutation customerAddressUpdate($customerAccessToken: String!, $id: ID!, $address: MailingAddressInput!) {
		  customerAddressUpdate(customerAccessToken: $customerAccessToken, id: $id, address: $address) {
		    customerAddress {
		      ...address
		    }
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`) + addressFragment

	CustomerAddressDeleteMutation = heredoc.Doc(`
		mutation customerAddressDelete($customerAccessToken: String!, $id: ID!) {
		  customerAddressDelete(customerAccessToken: $customerAccessToken, id: $id) {
		    deletedCustomerAddressId
		    customerUserErrors {
		      field
		      message
		      code
		    }
		  }
		}
	`)
)

// Cart documents.
var (
	GetCartQuery = heredoc.Doc(`
		query getCart($cartId: ID!) {
		  cart(id: $cartId) {
		    ...cart
		  }
		}
	`) + cartFragment + imageFragment

	CartCreateMutation = heredoc.Doc(`
		mutation createCart($lineItems: [CartLineInput!]) {
		  cartCreate(input: { lines: $lineItems }) {
		    cart {
		      ...cart
		    }
		  }
		}
	`) + cartFragment + imageFragment

	CartLinesAddMutation = heredoc.Doc(`
		mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
		  cartLinesAdd(cartId: $cartId, lines: $lines) {
		    cart {
		      ...cart
		    }
		  }
		}
	`) + cartFragment + imageFragment

	CartLinesRemoveMutation = heredoc.Doc(`
		mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
		  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
		    cart {
		      ...cart
		    }
		  }
		}
	`) + cartFragment + imageFragment

	CartLinesUpdateMutation = heredoc.Doc(`
		mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
		  cartLinesUpdate(cartId: $cartId, lines: $lines) {
		    cart {
		      ...cart
		    }
		  }
		}
	`) + cartFragment + imageFragment
)

// Catalog documents.
var (
	GetCollectionQuery = heredoc.Doc(`
		query getCollection($handle: String!) {
		  collection(handle: $handle) {
		    ...collection
		  }
		}
	`) + collectionFragment + seoFragment

	GetCollectionsQuery = heredoc.Doc(`
		query getCollections {
		  collections(first: 100, sortKey: TITLE) {
		    edges {
		      node {
		        ...collection
		      }
		    }
		  }
		}
	`) + collectionFragment + seoFragment

	GetCollectionProductsQuery = heredoc.Doc(`
		query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
		  collection(handle: $handle) {
		    products(sortKey: $sortKey, reverse: $reverse, first: 100) {
		      edges {
		        node {
		          ...product
		        }
		      }
		    }
		  }
		}
	`) + productFragment + imageFragment + seoFragment

	GetProductQuery = heredoc.Doc(`
		query getProduct($handle: String!) {
		  product(handle: $handle) {
		    ...product
		  }
		}
	`) + productFragment + imageFragment + seoFragment

	GetProductsQuery = heredoc.Doc(`
		query getProducts($sortKey: ProductSortKeys, $reverse: Boolean, $query: String) {
		  products(sortKey: $sortKey, reverse: $reverse, query: $query, first: 100) {
		    edges {
		      node {
		        ...product
		      }
		    }
		  }
		}
	`) + productFragment + imageFragment + seoFragment

	GetProductRecommendationsQuery = heredoc.Doc(`
		query getProductRecommendations($productId: ID!) {
		  productRecommendations(productId: $productId) {
		    ...product
		  }
		}
	`) + productFragment + imageFragment + seoFragment

	GetMenuQuery = heredoc.Doc(`
		query getMenu($handle: String!) {
		  menu(handle: $handle) {
		    items {
		      title
		      url
		    }
		  }
		}
	`)

	GetPageQuery = heredoc.Doc(`
		query getPage($handle: String!) {
		  pageByHandle(handle: $handle) {
		    ...page
		  }
		}
	`) + pageFragment + seoFragment

	GetPagesQuery = heredoc.Doc(`
		query getPages {
		  pages(first: 100) {
		    edges {
		      node {
		        ...page
		      }
		    }
		  }
		}
	`) + pageFragment + seoFragment
)
