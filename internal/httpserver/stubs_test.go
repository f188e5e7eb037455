package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"
)

type stubCartService struct {
	cart       *domain.Cart
	err        error
	lastAdd    cartsvc.AddInput
	lastUpdate cartsvc.UpdateInput
	lastRemove [2]string
	lastUserID string
}

func (s *stubCartService) Get(_ context.Context, userID string) (*domain.Cart, error) {
	s.lastUserID = userID
	return s.cart, s.err
}

func (s *stubCartService) Add(_ context.Context, userID string, in cartsvc.AddInput) (*domain.Cart, error) {
	s.lastUserID = userID
	s.lastAdd = in
	return s.cart, s.err
}

func (s *stubCartService) Update(_ context.Context, userID string, in cartsvc.UpdateInput) (*domain.Cart, error) {
	s.lastUserID = userID
	s.lastUpdate = in
	return s.cart, s.err
}

func (s *stubCartService) Remove(_ context.Context, userID, productID, size string) (*domain.Cart, error) {
	s.lastUserID = userID
	s.lastRemove = [2]string{productID, size}
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, userID string) (*domain.Cart, error) {
	s.lastUserID = userID
	return s.cart, s.err
}

type stubWishlistService struct {
	wishlist *domain.Wishlist
	err      error
	lastID   string
}

func (s *stubWishlistService) Get(_ context.Context, _ string) (*domain.Wishlist, error) {
	return s.wishlist, s.err
}

func (s *stubWishlistService) Add(_ context.Context, _, productID string) (*domain.Wishlist, error) {
	s.lastID = productID
	return s.wishlist, s.err
}

func (s *stubWishlistService) Remove(_ context.Context, _, productID string) (*domain.Wishlist, error) {
	s.lastID = productID
	return s.wishlist, s.err
}

type stubUserService struct {
	user        *domain.User
	registerErr error
	loginErr    error
	authErr     error
	revoked     string
}

func (s *stubUserService) Register(_ context.Context, _ usersvc.RegisterInput) (*domain.User, error) {
	return s.user, s.registerErr
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, "tok", s.loginErr
}

func (s *stubUserService) Logout(_ context.Context, token string) error {
	s.revoked = token
	return nil
}

func (s *stubUserService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	if token != "good" {
		return nil, usersvc.ErrInvalidToken
	}
	return s.user, nil
}

func (s *stubUserService) SessionTTLSeconds() int {
	return 3600
}

type stubProductService struct {
	page       productsvc.Page
	product    *domain.Product
	err        error
	lastLimit  int
	lastOffset int
}

func (s *stubProductService) List(_ context.Context, limit, offset int) (productsvc.Page, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.page, s.err
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

type stubDeps struct {
	cart     *stubCartService
	wishlist *stubWishlistService
	user     *stubUserService
	product  *stubProductService
}

func newStubDeps() *stubDeps {
	return &stubDeps{
		cart:     &stubCartService{cart: &domain.Cart{UserID: "u1", Items: []domain.CartItem{}}},
		wishlist: &stubWishlistService{wishlist: &domain.Wishlist{UserID: "u1", ProductIDs: []string{"p1"}}},
		user:     &stubUserService{user: &domain.User{ID: "u1", Email: "me@example.com", Role: domain.RoleCustomer}},
		product:  &stubProductService{},
	}
}

func (d *stubDeps) router(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, Deps{
		CartSvc:     d.cart,
		WishlistSvc: d.wishlist,
		UserSvc:     d.user,
		ProductSvc:  d.product,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
