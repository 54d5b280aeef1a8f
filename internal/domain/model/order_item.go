package model

import "time"

// 注文明細（注文時点の商品スナップショット）
// 商品が後で編集・削除されても過去の注文の表示は変わらない
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"orderId"`
	ProductID int64     `gorm:"not null;index" json:"productId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	Image     string    `gorm:"type:varchar(500)" json:"image"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}
