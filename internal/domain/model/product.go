package model

import (
	"time"

	"gorm.io/gorm"
)

// 金の純度（24K/22K/18K）
type Purity string

const (
	Purity24K Purity = "24K"
	Purity22K Purity = "22K"
	Purity18K Purity = "18K"
)

// 商品。価格はpaise（整数）で持つ。
type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Image       string `gorm:"type:varchar(512)" json:"image"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	//表示用の重量（例: "10.5g"）
	Weight   string `gorm:"type:varchar(50)" json:"weight"`
	Purity   Purity `gorm:"type:varchar(10);index" json:"purity"`
	Stock    int64  `gorm:"not null" json:"stock"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
