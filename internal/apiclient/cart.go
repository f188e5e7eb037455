package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

type updateCartItemRequest struct {
	ProductID string  `json:"productId"`
	Quantity  *int    `json:"quantity,omitempty"`
	Size      *string `json:"size,omitempty"`
}

type removeFromCartRequest struct {
	Size string `json:"size"`
}

func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int, size string) (*domain.Cart, error) {
	var cart domain.Cart
	in := addToCartRequest{ProductID: productID, Quantity: quantity, Size: size}
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, upd domain.ItemUpdate) (*domain.Cart, error) {
	var cart domain.Cart
	in := updateCartItemRequest{ProductID: productID, Quantity: upd.Quantity, Size: upd.Size}
	if err := c.do(ctx, http.MethodPut, "/api/cart/update", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, productID, size string) (*domain.Cart, error) {
	var cart domain.Cart
	path := "/api/cart/remove/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodDelete, path, removeFromCartRequest{Size: size}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/clear", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}
