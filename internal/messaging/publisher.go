package messaging

import (
	"context"
	"time"
)

// 注文ステータスが変わったことを外へ知らせるイベント。
type OrderStatusEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	Actor      string    `json:"actor"`
	TotalPrice int64     `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishOrderStatus(ctx context.Context, event OrderStatusEvent) error
	Close() error
}

// ブローカー未設定の環境用。何もしない。
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderStatus(ctx context.Context, event OrderStatusEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
