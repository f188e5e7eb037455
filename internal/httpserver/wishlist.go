package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	wishlistsvc "storefront/internal/service/wishlist"
)

func (h *handlers) getWishlist(c *gin.Context) {
	w, err := h.deps.WishlistSvc.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handlers) addToWishlist(c *gin.Context) {
	var req wishlistsvc.AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	w, err := h.deps.WishlistSvc.Add(c.Request.Context(), currentUser(c).ID, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handlers) removeFromWishlist(c *gin.Context) {
	w, err := h.deps.WishlistSvc.Remove(c.Request.Context(), currentUser(c).ID, c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
