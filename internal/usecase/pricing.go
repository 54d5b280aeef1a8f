package usecase

import "math"

// 送料・税率は全注文共通の固定ルール
const (
	// 小計がこの額を超えたら送料無料
	FreeShippingThreshold = 500.0
	FlatShippingCost      = 50.0

	TaxRate = 0.18
)

type OrderTotals struct {
	Subtotal     float64
	ShippingCost float64
	Tax          float64
	Total        float64
}

// 小計から送料・税・合計を計算する。
//
//	shipping = 0 if subtotal > 500 else 50
//	tax      = round(subtotal * 0.18, 2)
//	total    = subtotal + shipping + tax
func ComputeTotals(subtotal float64) OrderTotals {
	shipping := FlatShippingCost
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	tax := roundToCents(subtotal * TaxRate)

	return OrderTotals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        subtotal + shipping + tax,
	}
}

func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
