package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

func (c *Client) GetWishlist(ctx context.Context) (*domain.Wishlist, error) {
	var wl domain.Wishlist
	if err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

func (c *Client) AddToWishlist(ctx context.Context, productID string) (*domain.Wishlist, error) {
	var wl domain.Wishlist
	if err := c.do(ctx, http.MethodPost, "/api/wishlist/add", wishlistRequest{ProductID: productID}, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) (*domain.Wishlist, error) {
	var wl domain.Wishlist
	if err := c.do(ctx, http.MethodDelete, "/api/wishlist/remove/"+url.PathEscape(productID), nil, &wl); err != nil {
		return nil, err
	}
	return &wl, nil
}
