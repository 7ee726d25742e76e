package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PhonePe系のHTTPゲートウェイ。
type PhonePeGateway struct {
	baseURL    string
	merchantID string
	secret     string
	client     *http.Client
}

func NewPhonePeGateway(baseURL string, merchantID string, secret string) *PhonePeGateway {
	return &PhonePeGateway{
		baseURL:    baseURL,
		merchantID: merchantID,
		secret:     secret,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type phonePeCreateRequest struct {
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
}

type phonePeCreateResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Error    *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *PhonePeGateway) CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error) {
	payload := phonePeCreateRequest{
		MerchantID: g.merchantID,
		Amount:     amount,
		Currency:   "INR",
		Receipt:    receipt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Order{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/checkout/v2/pay", bytes.NewBuffer(body))
	if err != nil {
		return Order{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Order{}, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(raw))
	}

	var out phonePeCreateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Order{}, fmt.Errorf("invalid gateway response: %v", err)
	}
	if out.Error != nil {
		return Order{}, fmt.Errorf("gateway error: %s", out.Error.Message)
	}
	if out.OrderID == "" {
		return Order{}, fmt.Errorf("gateway returned empty order id")
	}

	return Order{ID: out.OrderID, Amount: out.Amount, Currency: out.Currency}, nil
}

type phonePeStatusResponse struct {
	State         string `json:"state"`
	TransactionID string `json:"transaction_id"`
}

func (g *PhonePeGateway) OrderStatus(ctx context.Context, orderID string) (StatusResult, error) {
	url := fmt.Sprintf("%s/checkout/v2/order/%s/status", g.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return StatusResult{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return StatusResult{}, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(raw))
	}

	var out phonePeStatusResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return StatusResult{}, fmt.Errorf("invalid gateway response: %v", err)
	}

	switch State(out.State) {
	case StatePending, StateCompleted, StateFailed:
		return StatusResult{State: State(out.State), TransactionID: out.TransactionID}, nil
	default:
		return StatusResult{}, fmt.Errorf("unknown gateway state: %s", out.State)
	}
}

func (g *PhonePeGateway) VerifySignature(orderID string, paymentID string, signature string) bool {
	return verify(g.secret, orderID, paymentID, signature)
}
