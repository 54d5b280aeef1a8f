package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// slug重複など一意制約違反
	ErrConflict = errors.New("conflict")
)

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64

	// price-asc / price-desc / name / newest
	Sort string

	// 管理者一覧のみtrue。公開一覧では常に削除済みを除外する
	IncludeDeleted bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 公開一覧（is_deleted=false のみ）
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	// 管理者一覧（IncludeDeleted=true なら削除済みも含む）
	ListAdmin(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)

	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	// 非削除商品のカテゴリ一覧（distinct）
	ListCategories(ctx context.Context) ([]model.Category, error)

	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	// ダッシュボード用（非削除の商品数）
	CountActive(ctx context.Context) (int64, error)
}
