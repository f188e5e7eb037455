package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/storetest"
)

func newClient(t *testing.T, baseURL string, tokens TokenSource) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: baseURL, Tokens: tokens, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "  "})
	assert.Error(t, err)
}

func TestClient_UnauthenticatedWithoutToken(t *testing.T) {
	store := storetest.New(t)
	c := newClient(t, store.URL, session.New(nil))

	_, err := c.GetCart(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "authentication required", apiErr.Message)
}

func TestClient_LoginAndCartFlow(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	sess := session.New(nil)
	c := newClient(t, store.URL, sess)

	login, err := c.Login(ctx, "demo@example.com", "Demo12345")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, 3600, login.ExpiresIn)
	require.NoError(t, sess.Begin(login.Token))

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", me.Email)

	cart, err := c.AddToCart(ctx, "hoodie-zip", 2, "M")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "45", item.UnitPrice.String())
	require.NotNil(t, item.OriginalPrice)
	assert.Equal(t, "59", item.OriginalPrice.String())

	cart, err = c.AddToCart(ctx, "hoodie-zip", 1, "M")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	cart, err = c.UpdateCartItem(ctx, "hoodie-zip", domain.ItemUpdate{Quantity: intPtr(5), Size: strPtr("L")})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "L", cart.Items[0].Size)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	_, err = c.AddToCart(ctx, "mug-logo", 1, "")
	require.NoError(t, err)

	cart, err = c.RemoveFromCart(ctx, "hoodie-zip", "L")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "mug-logo", cart.Items[0].ProductID)

	_, err = c.RemoveFromCart(ctx, "hoodie-zip", "")
	assert.True(t, IsNotFound(err), "got %v", err)

	cart, err = c.ClearCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, c.Logout(ctx))
	sess.End()
	_, err = c.GetCart(ctx)
	assert.True(t, IsUnauthenticated(err))
}

func TestClient_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	sess := session.New(nil)
	require.NoError(t, sess.Begin(store.Login(t)))
	c := newClient(t, store.URL, sess)

	_, err := c.AddToCart(ctx, "tee-classic", 1, "XXS")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "not offered")

	_, err = c.AddToCart(ctx, "tee-classic", 100, "M")
	apiErr, ok = AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, apiErr.Kind)

	_, err = c.AddToCart(ctx, "", 1, "M")
	apiErr, ok = AsError(err)
	require.True(t, ok)
	assert.Equal(t, "validation failed", apiErr.Message)
	assert.NotNil(t, apiErr.Details)

	_, err = c.GetProduct(ctx, "ghost")
	assert.True(t, IsNotFound(err))
}

func TestClient_WishlistAndCatalog(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	sess := session.New(nil)
	require.NoError(t, sess.Begin(store.Login(t)))
	c := newClient(t, store.URL, sess)

	page, err := c.ListProducts(ctx, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 7, page.Total)

	p, err := c.GetProduct(ctx, "coat-wool")
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "L"}, p.Sizes)

	w, err := c.AddToWishlist(ctx, "coat-wool")
	require.NoError(t, err)
	assert.Equal(t, []string{"coat-wool"}, w.ProductIDs)

	w, err = c.RemoveFromWishlist(ctx, "coat-wool")
	require.NoError(t, err)
	assert.Empty(t, w.ProductIDs)

	w, err = c.GetWishlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, w.ProductIDs)
}

func TestClient_Register(t *testing.T) {
	ctx := context.Background()
	store := storetest.New(t)
	c := newClient(t, store.URL, nil)

	u, err := c.Register(ctx, "new@example.com", "Abcdefg1", "New")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)

	_, err = c.Register(ctx, "new@example.com", "Abcdefg1", "New")
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, KindValidation, apiErr.Kind)
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newClient(t, url, nil)
	_, err := c.GetCart(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
}

func TestClient_ServerErrorMessageFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(ts.Close)

	c := newClient(t, ts.URL, nil)
	_, err := c.GetCart(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, apiErr.Kind)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Equal(t, "Bad Gateway (status 502)", apiErr.Error())
}

func TestClient_BreakerOpensOnServerFailures(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	}))
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, BreakerFailures: 2, BreakerCooldown: time.Minute})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.GetCart(context.Background())
		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindServer, apiErr.Kind)
		assert.Equal(t, "internal error", apiErr.Message)
	}

	_, err = c.GetCart(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.Equal(t, "store temporarily unavailable", apiErr.Message)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ValidationDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"nope","details":{"field":"size"}}`))
	}))
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, BreakerFailures: 1})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := c.GetCart(context.Background())
		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindValidation, apiErr.Kind)
		assert.Equal(t, map[string]any{"field": "size"}, apiErr.Details)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"u1","items":[]}`))
	}))
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, BreakerFailures: 1, BreakerCooldown: time.Minute})
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	for _, ctx := range []context.Context{canceled, canceled, expired, expired} {
		_, err := c.GetCart(ctx)
		apiErr, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, KindTransport, apiErr.Kind)
		assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded), "got %v", err)
	}

	cart, err := c.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindUnauthenticated, kindForStatus(http.StatusForbidden))
	assert.Equal(t, KindNotFound, kindForStatus(http.StatusNotFound))
	assert.Equal(t, KindValidation, kindForStatus(http.StatusConflict))
	assert.Equal(t, KindServer, kindForStatus(http.StatusServiceUnavailable))
	assert.True(t, errors.Is(&Error{Err: context.Canceled}, context.Canceled))
}
