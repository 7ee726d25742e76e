package model

import "time"

type OrderStatus string

// payment_failedだけ小文字なのはフロントとの既存契約
const (
	OrderStatusPending       OrderStatus = "Pending"
	OrderStatusProcessing    OrderStatus = "Processing"
	OrderStatusShipped       OrderStatus = "Shipped"
	OrderStatusDelivered     OrderStatus = "Delivered"
	OrderStatusCancelled     OrderStatus = "Cancelled"
	OrderStatusPaymentFailed OrderStatus = "payment_failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusPaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// 注文。顧客情報と明細は確定時点のスナップショット。
// Statusは最新のStatusHistoryのキャッシュ（必ず一致させる）。
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	CustomerName    string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone   string `gorm:"type:varchar(30);not null" json:"customer_phone"`
	BillingAddress  string `gorm:"type:text;not null" json:"billing_address"`
	DeliveryAddress string `gorm:"type:text;not null" json:"delivery_address"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`
	TotalPrice    int64         `gorm:"not null" json:"total_price"`

	//オンライン決済のみ。ゲートウェイ確認後に入る。
	TransactionID   string `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	MerchantOrderID string `gorm:"type:varchar(255);index" json:"merchant_order_id,omitempty"`

	IdempotencyKey string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
