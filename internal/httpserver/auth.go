package httpserver

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/service/customer"
)

const msgCredentialsRequired = "Email and password are required"

type authHandler struct {
	svc     customerService
	cookies cookieJar
	logger  *log.Logger
}

type recoverRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// get reports the logged-in customer, or null.
func (h *authHandler) get(c *gin.Context) {
	cust := h.svc.Get(c.Request.Context(), h.cookies.customer(c))
	c.JSON(http.StatusOK, gin.H{"customer": cust})
}

// dispatch serves the single-endpoint form used by the storefront's auth
// context: {"action": "...", ...params}. Results are returned as-is, user
// errors included.
func (h *authHandler) dispatch(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var envelope struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	ctx := c.Request.Context()
	switch envelope.Action {
	case "login":
		var in customer.LoginInput
		if err := json.Unmarshal(raw, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		res, err := h.svc.Login(ctx, h.cookies.customer(c), in)
		if err != nil {
			writeUpstreamError(c, h.logger, err, "Login failed")
			return
		}
		c.JSON(http.StatusOK, res)
	case "register":
		var in customer.CreateInput
		if err := json.Unmarshal(raw, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		res, err := h.svc.Create(ctx, in)
		if err != nil {
			writeUpstreamError(c, h.logger, err, "Registration failed")
			return
		}
		c.JSON(http.StatusOK, res)
	case "update":
		var in customer.UpdateInput
		if err := json.Unmarshal(raw, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		res, err := h.svc.Update(ctx, h.cookies.customer(c), in)
		if err != nil {
			writeUpstreamError(c, h.logger, err, "Update failed")
			return
		}
		c.JSON(http.StatusOK, res)
	case "logout":
		h.svc.Logout(ctx, h.cookies.customer(c))
		c.JSON(http.StatusOK, gin.H{"success": true})
	case "recover":
		var in recoverRequest
		if err := json.Unmarshal(raw, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		res, err := h.svc.Recover(ctx, in.Email)
		if err != nil {
			writeUpstreamError(c, h.logger, err, "Recover failed")
			return
		}
		c.JSON(http.StatusOK, res)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

func (h *authHandler) login(c *gin.Context) {
	var in customer.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, msgCredentialsRequired)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), h.cookies.customer(c), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Login failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": res.AccessToken,
		"expiresAt":   res.ExpiresAt,
	})
}

func (h *authHandler) register(c *gin.Context) {
	var in customer.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, msgCredentialsRequired)
		return
	}
	res, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Registration failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	var id string
	if res.Customer != nil {
		id = res.Customer.ID
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "customerId": id})
}

func (h *authHandler) logout(c *gin.Context) {
	ok := h.svc.Logout(c.Request.Context(), h.cookies.customer(c))
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

func (h *authHandler) recoverPassword(c *gin.Context) {
	var in recoverRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, "A valid email is required")
		return
	}
	res, err := h.svc.Recover(c.Request.Context(), in.Email)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Recover failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *authHandler) reset(c *gin.Context) {
	var in customer.ResetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	res, err := h.svc.Reset(c.Request.Context(), h.cookies.customer(c), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Reset failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": res.AccessToken,
		"expiresAt":   res.ExpiresAt,
	})
}

func (h *authHandler) update(c *gin.Context) {
	var in customer.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	res, err := h.svc.Update(c.Request.Context(), h.cookies.customer(c), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Update failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": res.Customer})
}

func (h *authHandler) createAddress(c *gin.Context) {
	var in customer.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	res, err := h.svc.CreateAddress(c.Request.Context(), h.cookies.customer(c), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Address creation failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *authHandler) updateAddress(c *gin.Context) {
	var in customer.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeBindError(c, err, "validation failed")
		return
	}
	res, err := h.svc.UpdateAddress(c.Request.Context(), h.cookies.customer(c), c.Param("id"), in)
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Address update failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *authHandler) deleteAddress(c *gin.Context) {
	res, err := h.svc.DeleteAddress(c.Request.Context(), h.cookies.customer(c), c.Param("id"))
	if err != nil {
		writeUpstreamError(c, h.logger, err, "Address deletion failed")
		return
	}
	if len(res.Errors) > 0 {
		writeUserErrors(c, res.Errors)
		return
	}
	c.JSON(http.StatusOK, res)
}
