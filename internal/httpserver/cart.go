package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "storefront/internal/service/cart"
)

type removeRequest struct {
	Size string `json:"size"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addToCart(c *gin.Context) {
	var req cartsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cart, err := h.deps.CartSvc.Add(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	cart, err := h.deps.CartSvc.Update(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// removeFromCart takes the size from an optional JSON body, falling back to
// the size query parameter.
func (h *handlers) removeFromCart(c *gin.Context) {
	req := removeRequest{Size: c.Query("size")}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			bindError(c, err)
			return
		}
	}
	cart, err := h.deps.CartSvc.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"), req.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) clearCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Clear(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}
