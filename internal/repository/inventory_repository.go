package repository

import "context"

// 在庫の永続化と履歴保存をまとめた約束。
// 在庫の減算は必ず条件付き原子更新（stock >= qty のときだけ減らす）で行い、
// 在庫がマイナスになる経路を作らない。
type InventoryRepository interface {
	// 在庫が足りるときだけ減らす。足りなければ false
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫を「現在値」に更新し、調整履歴も残す
	SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error
}
