package model

import "time"

// カートの明細。
// 商品属性は追加時点のスナップショットを必ず保存する。
// 同一カート内で同じ商品は1行のみ（数量加算はしない）。
type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64 `gorm:"not null;index;uniqueIndex:uq_cart_product" json:"cart_id"`
	ProductID int64 `gorm:"not null;index;uniqueIndex:uq_cart_product" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	//追加時点のスナップショット
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	Image       string `gorm:"type:varchar(512)" json:"image"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Weight      string `gorm:"type:varchar(50)" json:"weight"`
	Purity      Purity `gorm:"type:varchar(10)" json:"purity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
