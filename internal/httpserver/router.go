package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID string, in cartsvc.AddInput) (*domain.Cart, error)
	Update(ctx context.Context, userID string, in cartsvc.UpdateInput) (*domain.Cart, error)
	Remove(ctx context.Context, userID, productID, size string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

type wishlistService interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
}

type userService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	SessionTTLSeconds() int
}

type productService interface {
	List(ctx context.Context, limit, offset int) (productsvc.Page, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// Deps are the services behind the API routes.
type Deps struct {
	CartSvc     cartService
	WishlistSvc wishlistService
	UserSvc     userService
	ProductSvc  productService
	// CORSOrigins lists browser origins allowed to call the API. Empty
	// disables the CORS middleware.
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.WishlistSvc == nil:
		return errors.New("wishlist service required")
	case d.UserSvc == nil:
		return errors.New("user service required")
	case d.ProductSvc == nil:
		return errors.New("product service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api")

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)

	authed := api.Group("", authMiddleware(deps.UserSvc))
	authed.POST("/users/logout", h.logout)
	authed.GET("/users/me", h.me)

	authed.GET("/cart", h.getCart)
	authed.POST("/cart/add", h.addToCart)
	authed.PUT("/cart/update", h.updateCartItem)
	authed.DELETE("/cart/remove/:productId", h.removeFromCart)
	authed.DELETE("/cart/clear", h.clearCart)

	authed.GET("/wishlist", h.getWishlist)
	authed.POST("/wishlist/add", h.addToWishlist)
	authed.DELETE("/wishlist/remove/:productId", h.removeFromWishlist)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
