package model

import "time"

// お気に入り（あとで買う）。1ユーザー×1商品で1件のみ。
type WishlistItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;index;uniqueIndex:uq_wishlist_user_product" json:"user_id"`
	ProductID int64 `gorm:"not null;index;uniqueIndex:uq_wishlist_user_product" json:"product_id"`

	//追加時点のスナップショット
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	Image       string `gorm:"type:varchar(512)" json:"image"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Weight      string `gorm:"type:varchar(50)" json:"weight"`
	Purity      Purity `gorm:"type:varchar(10)" json:"purity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
