package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カート明細の約束。
type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)

	// 同一商品は数量加算し、priceを現在価格に引き直す。無ければ新規作成
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, price float64) error

	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error

	// cartItemがそのuserのカートに属しているか
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
