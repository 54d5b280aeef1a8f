package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const PaymentMethodCOD = "Cash on Delivery"

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type ShippingAddressInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
}

type PlaceOrderInput struct {
	ShippingAddress ShippingAddressInput
	PaymentMethod   string

	// X-Idempotency-Key。空なら二重送信チェックなし
	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	OrderID         string                `json:"orderId"`
	UserID          int64                 `json:"userId"`
	Items           []OrderItemOutput     `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Subtotal        float64               `json:"subtotal"`
	ShippingCost    float64               `json:"shippingCost"`
	Tax             float64               `json:"tax"`
	Total           float64               `json:"total"`
	Status          string                `json:"status"`
	AdminNotes      string                `json:"adminNotes"`
	CreatedAt       time.Time             `json:"createdAt"`
}

func validateShippingAddress(in ShippingAddressInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", in.FullName},
		{"phone", in.Phone},
		{"address", in.Address},
		{"city", in.City},
		{"state", in.State},
		{"zipCode", in.ZipCode},
		{"country", in.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewHTTPError(http.StatusBadRequest, f.name+" is required")
		}
	}
	return nil
}

// PlaceOrder はチェックアウト本体。
// カートを検証して在庫を確定し、注文を作ってカートを空にする。
// 全体を1トランザクションで行うので、途中の明細で失敗したら
// 先に減らした在庫も含めて全部ロールバックされる。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateShippingAddress(in.ShippingAddress); err != nil {
		return OrderOutput{}, err
	}

	// 現状サポートする決済は代引きのみ
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = PaymentMethodCOD
	}
	if payment != PaymentMethodCOD {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "unsupported payment method")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーの再送なら既存の注文をそのまま返す（二重課金防止）
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if found {
				items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(existing, items)
				return nil
			}
		}

		//カート取得
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}

		//明細ごとに商品を再取得して検証し、在庫を減らす
		//（カートのスナップショットは古い可能性があるので信用しない）
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var subtotal float64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "Product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if p.IsDeleted {
				return NewHTTPError(http.StatusBadRequest, "Product "+p.Name+" not found")
			}

			//在庫減算（stock >= qty のときだけ成功する原子更新）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, ci.ProductID, ci.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewInsufficientStockError(p.Name, p.Stock)
			}

			//スナップショット（価格は商品の現在値）
			orderItems = append(orderItems, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  ci.Quantity,
				Price:     p.Price,
				Image:     p.FirstImage(),
			})

			subtotal += p.Price * float64(ci.Quantity)
		}

		totals := ComputeTotals(subtotal)

		// 注文作成
		now := time.Now()
		order := model.Order{
			OrderID: GenerateOrderID(now),
			UserID:  userID,
			ShippingAddress: model.ShippingAddress{
				FullName: strings.TrimSpace(in.ShippingAddress.FullName),
				Phone:    strings.TrimSpace(in.ShippingAddress.Phone),
				Address:  strings.TrimSpace(in.ShippingAddress.Address),
				City:     strings.TrimSpace(in.ShippingAddress.City),
				State:    strings.TrimSpace(in.ShippingAddress.State),
				ZipCode:  strings.TrimSpace(in.ShippingAddress.ZipCode),
				Country:  strings.TrimSpace(in.ShippingAddress.Country),
			},
			PaymentMethod: payment,
			Subtotal:      totals.Subtotal,
			ShippingCost:  totals.ShippingCost,
			Tax:           totals.Tax,
			Total:         totals.Total,
			Status:        model.OrderStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		orderDBID, err := r.Orders().Create(ctx, order)
		if err != nil {
			// 同時に同じキーで作られた場合はもう一度引いて同じ結果を返す
			if key != "" {
				ex, found, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
				if err2 == nil && found {
					items, err3 := r.OrderItems().ListByOrderID(ctx, ex.ID)
					if err3 != nil {
						return NewHTTPError(http.StatusInternalServerError, "db error")
					}
					out = toOrderOutput(ex, items)
					return nil
				}
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderDBID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderDBID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 自分の注文履歴（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細。他人の注文は403
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "Not authorized")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Image:     it.Image,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		OrderID:         o.OrderID,
		UserID:          o.UserID,
		Items:           outItems,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Total:           o.Total,
		Status:          string(o.Status),
		AdminNotes:      o.AdminNotes,
		CreatedAt:       o.CreatedAt,
	}
}
