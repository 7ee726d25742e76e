package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ログインしていない状態でカート系APIを呼んだ
var ErrAuthRequired = errors.New("auth required")

// カートの二重追加（409）。サーバーの正のカートを同梱。
type CartConflictError struct {
	Message string
	Cart    Cart
}

func (e *CartConflictError) Error() string { return e.Message }

// ウィッシュリストの二重追加（409）
type WishlistConflictError struct {
	Message string
	Items   []WishlistItem
}

func (e *WishlistConflictError) Error() string { return e.Message }

type CartItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Purity      string `json:"purity,omitempty"`
	Quantity    int64  `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
}

type WishlistItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Purity      string `json:"purity,omitempty"`
}

type Customer struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	BillingAddress  string `json:"billing_address"`
	DeliveryAddress string `json:"delivery_address"`
}

type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Purity    string `json:"purity,omitempty"`
	Quantity  int64  `json:"quantity"`
}

type Order struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	TotalPrice    int64     `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentStatus struct {
	State       string `json:"state"`
	OrderStatus string `json:"order_status,omitempty"`
}

// TokenSource はログイン状態の照会。未ログインなら空文字を返す。
type TokenSource func() string

// API はストアフロントAPIの薄いHTTPクライアント。
type API struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

func NewAPI(baseURL string, token TokenSource) *API {
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		token:   token,
	}
}

type cartEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Cart    Cart   `json:"cart"`
}

type wishlistEnvelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Items   []WishlistItem `json:"items"`
}

type orderEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Order   Order  `json:"order"`
}

func (a *API) GetCart(ctx context.Context) (Cart, error) {
	var env cartEnvelope
	if err := a.do(ctx, http.MethodGet, "/cart", nil, &env, nil); err != nil {
		return Cart{}, err
	}
	return env.Cart, nil
}

func (a *API) AddToCart(ctx context.Context, productID int64, quantity int64) (Cart, error) {
	body := map[string]int64{"product_id": productID, "quantity": quantity}
	var env cartEnvelope
	err := a.do(ctx, http.MethodPost, "/cart", body, &env, func(status int, raw []byte) error {
		if status == http.StatusConflict {
			var conflict cartEnvelope
			if derr := json.Unmarshal(raw, &conflict); derr != nil {
				return derr
			}
			return &CartConflictError{Message: conflict.Error, Cart: conflict.Cart}
		}
		return nil
	})
	if err != nil {
		return Cart{}, err
	}
	return env.Cart, nil
}

func (a *API) UpdateCartItem(ctx context.Context, itemID int64, quantity int64) (Cart, error) {
	body := map[string]int64{"quantity": quantity}
	var env cartEnvelope
	if err := a.do(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d", itemID), body, &env, nil); err != nil {
		return Cart{}, err
	}
	return env.Cart, nil
}

func (a *API) DeleteCartItem(ctx context.Context, itemID int64) (Cart, error) {
	var env cartEnvelope
	if err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, &env, nil); err != nil {
		return Cart{}, err
	}
	return env.Cart, nil
}

func (a *API) ClearCart(ctx context.Context) (Cart, error) {
	var env cartEnvelope
	if err := a.do(ctx, http.MethodDelete, "/cart", nil, &env, nil); err != nil {
		return Cart{}, err
	}
	return env.Cart, nil
}

func (a *API) GetWishlist(ctx context.Context) ([]WishlistItem, error) {
	var env wishlistEnvelope
	if err := a.do(ctx, http.MethodGet, "/wishlist", nil, &env, nil); err != nil {
		return nil, err
	}
	return env.Items, nil
}

func (a *API) SaveToWishlist(ctx context.Context, productID int64) ([]WishlistItem, error) {
	body := map[string]int64{"product_id": productID}
	var env wishlistEnvelope
	err := a.do(ctx, http.MethodPost, "/wishlist", body, &env, func(status int, raw []byte) error {
		if status == http.StatusConflict {
			var conflict wishlistEnvelope
			if derr := json.Unmarshal(raw, &conflict); derr != nil {
				return derr
			}
			return &WishlistConflictError{Message: conflict.Error, Items: conflict.Items}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env.Items, nil
}

func (a *API) RemoveFromWishlist(ctx context.Context, itemID int64) ([]WishlistItem, error) {
	var env wishlistEnvelope
	if err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", itemID), nil, &env, nil); err != nil {
		return nil, err
	}
	return env.Items, nil
}

type placeOrderRequest struct {
	Customer Customer    `json:"customer"`
	Items    []OrderItem `json:"items"`
	Total    int64       `json:"total"`
}

func (a *API) PlaceCODOrder(ctx context.Context, customer Customer, items []OrderItem, total int64, idempotencyKey string) (Order, error) {
	var env orderEnvelope
	err := a.doWithHeaders(ctx, http.MethodPost, "/orders/cod",
		placeOrderRequest{Customer: customer, Items: items, Total: total},
		&env, nil, map[string]string{"X-Idempotency-Key": idempotencyKey})
	if err != nil {
		return Order{}, err
	}
	return env.Order, nil
}

func (a *API) CreateGatewayOrder(ctx context.Context, amount int64) (GatewayOrder, error) {
	body := map[string]int64{"amount": amount}
	var out GatewayOrder
	if err := a.do(ctx, http.MethodPost, "/payment/create-order", body, &out, nil); err != nil {
		return GatewayOrder{}, err
	}
	return out, nil
}

type verifyRequest struct {
	PaymentID string            `json:"payment_id"`
	OrderID   string            `json:"order_id"`
	Signature string            `json:"signature"`
	Order     placeOrderRequest `json:"order"`
}

type verifyResponse struct {
	Msg   string `json:"msg"`
	Order Order  `json:"order"`
}

func (a *API) VerifyPayment(ctx context.Context, paymentID, orderID, signature string, customer Customer, items []OrderItem, total int64, idempotencyKey string) (Order, error) {
	req := verifyRequest{
		PaymentID: paymentID,
		OrderID:   orderID,
		Signature: signature,
		Order:     placeOrderRequest{Customer: customer, Items: items, Total: total},
	}
	var out verifyResponse
	err := a.doWithHeaders(ctx, http.MethodPost, "/payment/verify", req, &out, nil,
		map[string]string{"X-Idempotency-Key": idempotencyKey})
	if err != nil {
		return Order{}, err
	}
	return out.Order, nil
}

func (a *API) PaymentOrderStatus(ctx context.Context, merchantOrderID string) (PaymentStatus, error) {
	var out PaymentStatus
	if err := a.do(ctx, http.MethodGet, "/payment/order-status/"+merchantOrderID, nil, &out, nil); err != nil {
		return PaymentStatus{}, err
	}
	return out, nil
}

// statusHookは特定ステータスを型付きエラーへ変換するための差し込み口。
type statusHook func(status int, raw []byte) error

func (a *API) do(ctx context.Context, method, path string, body interface{}, out interface{}, hook statusHook) error {
	return a.doWithHeaders(ctx, method, path, body, out, hook, nil)
}

func (a *API) doWithHeaders(ctx context.Context, method, path string, body interface{}, out interface{}, hook statusHook, headers map[string]string) error {
	token := a.token()
	if token == "" {
		return ErrAuthRequired
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return err
	}
	raw := buf.Bytes()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}

	if hook != nil {
		if herr := hook(resp.StatusCode, raw); herr != nil {
			return herr
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("api %s %s: %s", method, path, e.Error)
	}

	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}
