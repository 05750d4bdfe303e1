// Package remote is the HTTP client for the storefront Persistence Service.
// One call per mutation, no batching. Every method returns a typed Result.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akvaproffi/storefront/internal/auth"
	"github.com/akvaproffi/storefront/internal/cart"
	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/favorites"
	"github.com/akvaproffi/storefront/internal/orders"
	"github.com/akvaproffi/storefront/internal/users"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/akvaproffi/storefront/pkg/types"
)

const (
	apiPrefix      = "/api/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// TokenSource supplies the bearer token for the current owner.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client talks to the Persistence Service over JSON.
type Client struct {
	base    *url.URL
	timeout time.Duration
	tokens  TokenSource
	http    *http.Client
	logg    *logger.Logger
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Tokens == nil {
		opts.Tokens = &Session{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Client{
		base:    base,
		timeout: opts.Timeout,
		tokens:  opts.Tokens,
		http:    opts.HTTPClient,
		logg:    opts.Logger,
	}, nil
}

// QuantityResult is the outcome of SetCartQuantity.
type QuantityResult struct {
	Item    *collection.LineItem
	Removed bool
}

type removedBody struct {
	Removed bool `json:"removed"`
}

type favoriteStatus struct {
	IsFavorite bool `json:"is_favorite"`
}

func (c *Client) ListCart(ctx context.Context) Result[[]collection.LineItem] {
	res := doJSON[cart.CartDTO](ctx, c, http.MethodGet, "/cart", nil)
	if !res.OK() {
		return fail[[]collection.LineItem](res.Kind, pkgerrors.As(res.Err))
	}
	items := make([]collection.LineItem, 0, len(res.Value.Items))
	for _, item := range res.Value.Items {
		items = append(items, lineFromDTO(item))
	}
	return ok(items)
}

// AddToCart is create-or-increment: an existing line gains qty.
func (c *Client) AddToCart(ctx context.Context, p collection.Product, qty int) Result[collection.LineItem] {
	body := cart.AddRequest{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    qty,
	}
	res := doJSON[cart.ItemDTO](ctx, c, http.MethodPost, "/cart", body)
	if !res.OK() {
		return fail[collection.LineItem](res.Kind, pkgerrors.As(res.Err))
	}
	return ok(lineFromDTO(res.Value))
}

func (c *Client) SetCartQuantity(ctx context.Context, productID string, qty int) Result[QuantityResult] {
	body := cart.SetQuantityRequest{ProductID: productID, Quantity: qty}
	res := doJSON[cart.SetQuantityResult](ctx, c, http.MethodPut, "/cart", body)
	if !res.OK() {
		return fail[QuantityResult](res.Kind, pkgerrors.As(res.Err))
	}
	out := QuantityResult{Removed: res.Value.Removed}
	if res.Value.Item != nil {
		item := lineFromDTO(*res.Value.Item)
		out.Item = &item
	}
	return ok(out)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) Result[bool] {
	res := doJSON[removedBody](ctx, c, http.MethodDelete, "/cart/"+url.PathEscape(productID), nil)
	return Result[bool]{Value: res.Value.Removed, Kind: res.Kind, Err: res.Err}
}

func (c *Client) ClearCart(ctx context.Context) Result[struct{}] {
	res := doJSON[json.RawMessage](ctx, c, http.MethodDelete, "/cart", nil)
	return Result[struct{}]{Kind: res.Kind, Err: res.Err}
}

func (c *Client) ListFavorites(ctx context.Context) Result[[]collection.FavoriteRef] {
	res := doJSON[[]favorites.FavoriteDTO](ctx, c, http.MethodGet, "/favorites", nil)
	if !res.OK() {
		return fail[[]collection.FavoriteRef](res.Kind, pkgerrors.As(res.Err))
	}
	items := make([]collection.FavoriteRef, 0, len(res.Value))
	for _, fav := range res.Value {
		items = append(items, favoriteFromDTO(fav))
	}
	return ok(items)
}

// AddFavorite inserts if absent; an existing favorite is returned unchanged.
func (c *Client) AddFavorite(ctx context.Context, p collection.Product) Result[collection.FavoriteRef] {
	body := favorites.AddRequest{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
	}
	res := doJSON[favorites.AddResult](ctx, c, http.MethodPost, "/favorites", body)
	if !res.OK() {
		return fail[collection.FavoriteRef](res.Kind, pkgerrors.As(res.Err))
	}
	return ok(favoriteFromDTO(res.Value.Favorite))
}

func (c *Client) RemoveFavorite(ctx context.Context, productID string) Result[bool] {
	res := doJSON[removedBody](ctx, c, http.MethodDelete, "/favorites/"+url.PathEscape(productID), nil)
	return Result[bool]{Value: res.Value.Removed, Kind: res.Kind, Err: res.Err}
}

func (c *Client) IsFavorite(ctx context.Context, productID string) Result[bool] {
	res := doJSON[favoriteStatus](ctx, c, http.MethodGet, "/favorites/"+url.PathEscape(productID), nil)
	return Result[bool]{Value: res.Value.IsFavorite, Kind: res.Kind, Err: res.Err}
}

func (c *Client) PlaceOrder(ctx context.Context) Result[orders.OrderDTO] {
	return doJSON[orders.OrderDTO](ctx, c, http.MethodPost, "/checkout", nil)
}

func (c *Client) Login(ctx context.Context, email, password string) Result[auth.LoginResponse] {
	return doJSON[auth.LoginResponse](ctx, c, http.MethodPost, "/auth/login", auth.LoginRequest{Email: email, Password: password})
}

func (c *Client) Logout(ctx context.Context) Result[struct{}] {
	res := doJSON[json.RawMessage](ctx, c, http.MethodPost, "/auth/logout", nil)
	return Result[struct{}]{Kind: res.Kind, Err: res.Err}
}

func (c *Client) Profile(ctx context.Context) Result[users.UserDTO] {
	return doJSON[users.UserDTO](ctx, c, http.MethodGet, "/user/profile", nil)
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail[T](KindValidation, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request"))
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.base.JoinPath(apiPrefix, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fail[T](KindValidation, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		res := transportFailure[T](err)
		c.logg.WarnErr(c.logg.WithFields(ctx, map[string]any{"method": method, "path": path}), "remote.request_failed", res.Err)
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeFailure[T](resp)
	}

	var envelope types.DataEnvelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return fail[T](KindDecode, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode response"))
	}
	return ok(envelope.Data)
}

func decodeFailure[T any](resp *http.Response) Result[T] {
	var envelope types.ErrorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	code := pkgerrors.CodeForStatus(resp.StatusCode)
	message := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Coded() {
		code = pkgerrors.Code(envelope.Error.Code)
		if envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
	}
	typed := pkgerrors.New(code, message)
	if envelope.Error.Details != nil {
		typed = typed.WithDetails(envelope.Error.Details)
	}
	return fail[T](kindForCode(code), typed)
}

func lineFromDTO(item cart.ItemDTO) collection.LineItem {
	return collection.LineItem{
		ID:          item.ID.String(),
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Price:       item.Price,
		Image:       item.Image,
		Quantity:    item.Quantity,
		TotalPrice:  item.TotalPrice,
	}
}

func favoriteFromDTO(fav favorites.FavoriteDTO) collection.FavoriteRef {
	return collection.FavoriteRef{
		ID:          fav.ID.String(),
		ProductID:   fav.ProductID,
		ProductName: fav.ProductName,
		Price:       fav.Price,
		Image:       fav.Image,
		Category:    fav.Category,
		CreatedAt:   fav.CreatedAt,
	}
}
