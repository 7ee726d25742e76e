package model

import "time"

// 注文明細。カートとは切り離したスナップショット。
// 注文後にカートを変更しても過去の注文は変わらない。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Image     string    `gorm:"type:varchar(512)" json:"image"`
	Category  string    `gorm:"type:varchar(100)" json:"category"`
	Weight    string    `gorm:"type:varchar(50)" json:"weight"`
	Purity    Purity    `gorm:"type:varchar(10)" json:"purity"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
