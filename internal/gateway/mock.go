package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// テスト用のゲートウェイ。状態遷移を台本で指定できる。
type MockGateway struct {
	Secret string
	//OrderStatusを呼ぶたびに先頭から順に返す。尽きたら最後を返し続ける。
	States []State

	mu    sync.Mutex
	calls int

	CreatedOrders []Order
}

func NewMockGateway(secret string, states ...State) *MockGateway {
	return &MockGateway{Secret: secret, States: states}
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := Order{
		ID:       "mock_" + uuid.NewString()[:8],
		Amount:   amount,
		Currency: "INR",
	}
	m.CreatedOrders = append(m.CreatedOrders, o)
	return o, nil
}

func (m *MockGateway) OrderStatus(ctx context.Context, orderID string) (StatusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.States) == 0 {
		return StatusResult{State: StatePending}, nil
	}

	idx := m.calls
	if idx >= len(m.States) {
		idx = len(m.States) - 1
	}
	m.calls++

	st := m.States[idx]
	res := StatusResult{State: st}
	if st == StateCompleted {
		res.TransactionID = "txn_" + orderID
	}
	return res, nil
}

func (m *MockGateway) StatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockGateway) VerifySignature(orderID string, paymentID string, signature string) bool {
	return verify(m.Secret, orderID, paymentID, signature)
}
