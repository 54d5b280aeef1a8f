package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 管理者の注文検索。条件はすべてAND
type AdminOrderListFilter struct {
	Page  int
	Limit int

	// 空なら全ステータス
	Status string

	// 注文番号（ORD-xxxx）または顧客名の部分一致
	Search string

	From *time.Time
	To   *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)

	// 二重送信防止。見つからなければ found=false（エラーにしない）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateNotes(ctx context.Context, orderID int64, notes string) error

	//管理者用の注文一覧（新しい順・総件数つき）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)

	// CSVエクスポート用。ids空なら全件（新しい順）
	ListByIDs(ctx context.Context, ids []int64) ([]model.Order, error)

	// ダッシュボード用
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
	SumTotalExcludingStatus(ctx context.Context, status model.OrderStatus) (float64, error)
}
