package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	usersvc "storefront/internal/service/user"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      *domain.User `json:"user"`
}

func (h *handlers) register(c *gin.Context) {
	var req usersvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.deps.UserSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{User: u})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, token, err := h.deps.UserSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("user login", zap.String("user", u.ID))
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresIn: h.deps.UserSvc.SessionTTLSeconds(), User: u})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.UserSvc.Logout(c.Request.Context(), c.GetString(tokenKey)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, userResponse{User: currentUser(c)})
}
