package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// カート本体の約束。カートはユーザーごとに1つで、初回アクセス時に作る
type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	// 指定カートの明細を全削除
	Clear(ctx context.Context, cartID int64) error
}
