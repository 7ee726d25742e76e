package model

import "time"

// 在庫調整の履歴。管理者が在庫を直した記録を残す。
type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	ActorUserID int64     `gorm:"not null" json:"actor_user_id"`
	BeforeStock int64     `gorm:"not null" json:"before_stock"`
	AfterStock  int64     `gorm:"not null" json:"after_stock"`
	Reason      string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
