package catalog

// SortOption is a named product ordering offered by the search page.
type SortOption struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	SortKey string `json:"sortKey"`
	Reverse bool   `json:"reverse"`
}

var DefaultSort = SortOption{Title: "Relevance", Slug: "", SortKey: "RELEVANCE", Reverse: false}

// Sorting lists the orderings in display order, default first.
var Sorting = []SortOption{
	DefaultSort,
	{Title: "Trending", Slug: "trending-desc", SortKey: "BEST_SELLING", Reverse: false},
	{Title: "Latest arrivals", Slug: "latest-desc", SortKey: "CREATED_AT", Reverse: true},
	{Title: "Price: Low to high", Slug: "price-asc", SortKey: "PRICE", Reverse: false},
	{Title: "Price: High to low", Slug: "price-desc", SortKey: "PRICE", Reverse: true},
}

// SortBySlug resolves a slug from the query string. Unknown or empty slugs
// fall back to DefaultSort; "relevance" is accepted as an alias.
func SortBySlug(slug string) SortOption {
	if slug == "relevance" {
		return DefaultSort
	}
	for _, s := range Sorting {
		if s.Slug != "" && s.Slug == slug {
			return s
		}
	}
	return DefaultSort
}
