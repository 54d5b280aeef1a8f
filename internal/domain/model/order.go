package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 配送先住所。注文作成時に注文へ非正規化コピーする
// （後から住所を変えても過去の注文は変わらない）
type ShippingAddress struct {
	FullName string `gorm:"column:ship_full_name;type:varchar(255);not null" json:"fullName"`
	Phone    string `gorm:"column:ship_phone;type:varchar(30);not null" json:"phone"`
	Address  string `gorm:"column:ship_address;type:varchar(255);not null" json:"address"`
	City     string `gorm:"column:ship_city;type:varchar(100);not null" json:"city"`
	State    string `gorm:"column:ship_state;type:varchar(100);not null" json:"state"`
	ZipCode  string `gorm:"column:ship_zip_code;type:varchar(20);not null" json:"zipCode"`
	Country  string `gorm:"column:ship_country;type:varchar(100);not null" json:"country"`
}

// 注文。作成後に変更できるのは Status と AdminNotes だけ
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 画面・CSVで使う注文番号（ORD-xxxx）。内部IDとは別
	OrderID string `gorm:"type:varchar(40);not null;uniqueIndex" json:"orderId"`

	UserID          int64           `gorm:"not null;index" json:"userId"`
	ShippingAddress ShippingAddress `gorm:"embedded" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`

	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	ShippingCost float64 `gorm:"not null" json:"shippingCost"`
	Tax          float64 `gorm:"not null" json:"tax"`
	Total        float64 `gorm:"not null" json:"total"`

	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminNotes string      `gorm:"type:text" json:"adminNotes"`

	// 二重送信防止キー（X-Idempotency-Key）。未指定ならNULL
	IdempotencyKey *string `gorm:"type:varchar(255);uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
