package model

import "time"

// カート明細
// 同じ商品は1明細にまとめる（追加は数量加算）。
// price は追加時点の商品価格。同じ商品を再追加すると現在価格に引き直す
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index:idx_cart_product,unique" json:"cartId"`
	ProductID int64     `gorm:"not null;index:idx_cart_product,unique" json:"productId"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
