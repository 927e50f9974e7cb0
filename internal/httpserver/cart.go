package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
)

type cartHandler struct {
	svc     cartService
	cookies cookieJar
	logger  *log.Logger
}

type addLinesRequest struct {
	Lines []domain.LineInput `json:"lines" binding:"required,min=1,dive"`
}

type updateLinesRequest struct {
	Lines []domain.LineUpdate `json:"lines" binding:"required,min=1,dive"`
}

type removeLinesRequest struct {
	LineIDs []string `json:"lineIds" binding:"required,min=1"`
}

func (h *cartHandler) get(c *gin.Context) {
	ct, err := h.svc.Get(c.Request.Context(), h.cookies.cart(c))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Failed to get cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": ct})
}

func (h *cartHandler) addLines(c *gin.Context) {
	var req addLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	ct, err := h.svc.AddLines(c.Request.Context(), h.cookies.cart(c), req.Lines)
	h.respond(c, ct, err, "Error adding item to cart")
}

func (h *cartHandler) updateLines(c *gin.Context) {
	var req updateLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	ct, err := h.svc.UpdateLines(c.Request.Context(), h.cookies.cart(c), req.Lines)
	h.respond(c, ct, err, "Error updating item quantity")
}

func (h *cartHandler) removeLines(c *gin.Context) {
	var req removeLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	ct, err := h.svc.RemoveLines(c.Request.Context(), h.cookies.cart(c), req.LineIDs)
	h.respond(c, ct, err, "Error removing item from cart")
}

func (h *cartHandler) respond(c *gin.Context, ct *domain.Cart, err error, fallback string) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"cart": ct})
	case errors.Is(err, domain.ErrNoCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Missing cart ID"})
	case errors.Is(err, cart.ErrNoLines):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		writeUpstreamError(c, h.logger, err, fallback)
	}
}
