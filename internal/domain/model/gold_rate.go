package model

import "time"

// 金レート（1グラムあたり、paise）。
// 更新のたびに新しい行を追記し、最新行を現在レートとして使う。
// 22K/18Kは24Kから比例で導出する（22K = 24K × 22/24）。
type GoldRate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Rate24K   int64     `gorm:"not null" json:"rate_24k"`
	Rate22K   int64     `gorm:"not null" json:"rate_22k"`
	Rate18K   int64     `gorm:"not null" json:"rate_18k"`
	UpdatedBy int64     `gorm:"not null" json:"updated_by"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 24Kレートから純度ごとのレートを導出
func DeriveRate(rate24K int64, p Purity) int64 {
	switch p {
	case Purity24K:
		return rate24K
	case Purity22K:
		return rate24K * 22 / 24
	case Purity18K:
		return rate24K * 18 / 24
	default:
		return rate24K
	}
}
