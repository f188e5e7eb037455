// Package app assembles repositories and services into the store's HTTP
// dependencies for a chosen backend.
package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/httpserver"
	cartrepo "storefront/internal/repository/cart"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	wishlistrepo "storefront/internal/repository/wishlist"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
	wishlistsvc "storefront/internal/service/wishlist"
)

// Stores groups the repositories one backend provides.
type Stores struct {
	Carts     cartrepo.Repository
	Products  productrepo.Repository
	Users     userrepo.Repository
	Wishlists wishlistrepo.Repository
	Tokens    tokenrepo.Repository
}

// MemoryStores keeps everything in process.
func MemoryStores() Stores {
	return Stores{
		Carts:     cartrepo.NewMemory(),
		Products:  productrepo.NewMemory(),
		Users:     userrepo.NewMemory(),
		Wishlists: wishlistrepo.NewMemory(),
		Tokens:    tokenrepo.NewMemory(),
	}
}

// PostgresStores uses pool for all data. Tokens go to Redis when rdb is
// non-nil and stay in process otherwise.
func PostgresStores(pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) Stores {
	s := Stores{
		Carts:     cartrepo.NewPostgres(pool),
		Products:  productrepo.NewPostgres(pool, logger),
		Users:     userrepo.NewPostgres(pool, logger),
		Wishlists: wishlistrepo.NewPostgres(pool),
		Tokens:    tokenrepo.NewMemory(),
	}
	if rdb != nil {
		s.Tokens = tokenrepo.NewRedis(rdb)
	}
	return s
}

// Services are the business services built over a set of stores.
type Services struct {
	Cart     *cartsvc.Service
	Wishlist *wishlistsvc.Service
	User     *usersvc.Service
	Product  *productsvc.Service
}

func NewServices(s Stores, sessionTTL time.Duration, logger *zap.Logger) Services {
	return Services{
		Cart:     cartsvc.New(s.Carts, s.Products, logger),
		Wishlist: wishlistsvc.New(s.Wishlists, s.Products),
		User:     usersvc.New(s.Users, s.Tokens, sessionTTL, logger),
		Product:  productsvc.New(s.Products),
	}
}

// Deps adapts the services for httpserver.New.
func (s Services) Deps(corsOrigins []string) httpserver.Deps {
	return httpserver.Deps{
		CartSvc:     s.Cart,
		WishlistSvc: s.Wishlist,
		UserSvc:     s.User,
		ProductSvc:  s.Product,
		CORSOrigins: corsOrigins,
	}
}
