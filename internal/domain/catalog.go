package domain

// Collection is a platform collection with its storefront path.
type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SEO         SEO    `json:"seo"`
	UpdatedAt   string `json:"updatedAt"`
	Path        string `json:"path"`
}

// Menu is one navigation entry with a storefront-relative path.
type Menu struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Body        string `json:"body"`
	BodySummary string `json:"bodySummary"`
	SEO         *SEO   `json:"seo,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
