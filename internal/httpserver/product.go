package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, http.StatusBadRequest, "limit must be an integer", nil)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		writeError(c, http.StatusBadRequest, "offset must be an integer", nil)
		return
	}
	page, err := h.deps.ProductSvc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
