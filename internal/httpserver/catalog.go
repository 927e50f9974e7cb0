package httpserver

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/catalog"
)

type catalogHandler struct {
	svc    catalogService
	logger *log.Logger
}

// search lists products for ?q= ordered by the ?sort= slug.
func (h *catalogHandler) search(c *gin.Context) {
	sort := catalog.SortBySlug(c.Query("sort"))
	products, err := h.svc.Products(c.Request.Context(), catalog.ProductsInput{
		Query:   c.Query("q"),
		SortKey: sort.SortKey,
		Reverse: sort.Reverse,
	})
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *catalogHandler) product(c *gin.Context) {
	p, err := h.svc.Product(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get product")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// recommendations resolves the handle to a product id first.
func (h *catalogHandler) recommendations(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.svc.Product(ctx, c.Param("handle"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get product")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	products, err := h.svc.ProductRecommendations(ctx, p.ID)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *catalogHandler) collections(c *gin.Context) {
	cs, err := h.svc.Collections(c.Request.Context())
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": cs})
}

func (h *catalogHandler) collection(c *gin.Context) {
	col, err := h.svc.Collection(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get collection")
		return
	}
	if col == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": col})
}

func (h *catalogHandler) collectionProducts(c *gin.Context) {
	sort := catalog.SortBySlug(c.Query("sort"))
	products, err := h.svc.CollectionProducts(c.Request.Context(), catalog.CollectionProductsInput{
		Collection: c.Param("handle"),
		SortKey:    sort.SortKey,
		Reverse:    sort.Reverse,
	})
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get collection products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *catalogHandler) sorting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sorting": catalog.Sorting})
}

func (h *catalogHandler) menu(c *gin.Context) {
	items, err := h.svc.Menu(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu": items})
}

func (h *catalogHandler) pages(c *gin.Context) {
	pages, err := h.svc.Pages(c.Request.Context())
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get pages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *catalogHandler) page(c *gin.Context) {
	p, err := h.svc.Page(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get page")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": p})
}

const topicHeader = "X-Shopify-Topic"

type revalidateHandler struct {
	svc    catalogService
	secret string
	logger *log.Logger
}

// revalidate handles platform webhooks. Anything but a bad secret or a
// failed invalidation answers 200 so the platform stops retrying.
func (h *revalidateHandler) revalidate(c *gin.Context) {
	secret := c.Query("secret")
	if h.secret == "" || secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.secret)) != 1 {
		h.logger.Printf("revalidate: invalid secret")
		c.JSON(http.StatusUnauthorized, gin.H{"status": http.StatusUnauthorized})
		return
	}

	topic := c.GetHeader(topicHeader)
	if topic == "" {
		topic = "unknown"
	}
	res, err := h.svc.Revalidate(c.Request.Context(), topic)
	if err != nil {
		h.logger.Printf("revalidate %s: %v", topic, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": http.StatusInternalServerError})
		return
	}
	if !res.Revalidated {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "revalidated": true, "now": res.Now})
}
