package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// LoginResult is the store's answer to a successful login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	User      domain.User `json:"user"`
}

type userEnvelope struct {
	User domain.User `json:"user"`
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
	Results []domain.Product `json:"results"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/users/register", credentials{Email: email, Password: password, Name: name}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login does not touch any session; callers pass the token to session.Begin.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/users/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListProducts(ctx context.Context, limit, offset int) (*ProductPage, error) {
	var page ProductPage
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))
	if err := c.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
