package model

import "time"

// 誰がステータスを変えたか
type StatusActor string

const (
	StatusActorSystem StatusActor = "system"
	StatusActorAdmin  StatusActor = "admin"
	StatusActorUser   StatusActor = "user"
)

// 注文ステータスの履歴（追記のみ、書いたら変更しない）。
// 注文の現在ステータス＝最新エントリのステータス。
// Order.statusを変える処理は必ず同一トランザクションでここにも追記する。
type StatusHistory struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64       `gorm:"not null;index" json:"order_id"`
	Status          OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	UpdatedBy       StatusActor `gorm:"type:varchar(20);not null" json:"updated_by"`
	UpdatedByUserID *int64      `gorm:"index" json:"updated_by_user_id,omitempty"`
	Note            string      `gorm:"type:text" json:"note,omitempty"`
	//JSON文字列で保存する
	MetadataJSON string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
