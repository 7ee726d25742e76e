package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// 決済ステータス。COMPLETED/FAILEDが終端。
type State string

const (
	StatePending   State = "PENDING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// ゲートウェイ側の注文。ドメインのOrderとは別物で、
// 決済セッションを開くために先に作る。
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type StatusResult struct {
	State         State  `json:"state"`
	TransactionID string `json:"transaction_id,omitempty"`
}

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// 決済ゲートウェイの約束。
// VerifySignatureはクライアントのコールバックを信用せず、
// サーバー側で署名を再計算して照合する。
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error)
	OrderStatus(ctx context.Context, orderID string) (StatusResult, error)
	VerifySignature(orderID string, paymentID string, signature string) bool
}

// HMAC-SHA256(orderID|paymentID, secret) の16進表現
func Sign(secret string, orderID string, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret string, orderID string, paymentID string, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
