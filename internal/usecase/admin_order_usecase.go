package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx           repo.TransactionManager
	userRepo     repo.UserRepository
	productRepo  repo.ProductRepository
	orderRepo    repo.OrderRepository
	auditRepo    repo.AuditLogRepository
	statusPolicy string
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	statusPolicy string,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:           tx,
		userRepo:     userRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		auditRepo:    auditRepo,
		statusPolicy: statusPolicy,
	}
}

type AdminOrderOutput struct {
	OrderOutput
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

type AdminOrderListOutput struct {
	Orders []AdminOrderOutput `json:"orders"`
	Total  int64              `json:"total"`
	Page   int                `json:"page"`
	Pages  int                `json:"pages"`
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（フィルタはAND・新しい順）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.IsValidOrderStatus(model.OrderStatus(f.Status)) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]AdminOrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, AdminOrderOutput{OrderOutput: toOrderOutput(o, items)})
		}

		out = AdminOrderListOutput{
			Orders: outs,
			Total:  total,
			Page:   f.Page,
			Pages:  pageCount(total, f.Limit),
		}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}

	u.attachCustomers(ctx, out.Orders)
	return out, nil
}

// 管理者向け注文詳細（所有チェックなし）
func (u *AdminOrderUsecase) GetOrder(ctx context.Context, orderID int64) (AdminOrderOutput, error) {
	if orderID <= 0 {
		return AdminOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out AdminOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = AdminOrderOutput{OrderOutput: toOrderOutput(o, items)}
		return nil
	})

	if err != nil {
		return AdminOrderOutput{}, err
	}

	single := []AdminOrderOutput{out}
	u.attachCustomers(ctx, single)
	return single[0], nil
}

// strictポリシーで遷移できるか
// 前進のみ。Cancelledは非終端（Pending/Processing/Shipped）からのみ
func canTransitionStrict(from model.OrderStatus, to model.OrderStatus) bool {
	switch from {
	case model.OrderStatusPending:
		return to == model.OrderStatusProcessing || to == model.OrderStatusCancelled
	case model.OrderStatusProcessing:
		return to == model.OrderStatusShipped || to == model.OrderStatusCancelled
	case model.OrderStatusShipped:
		return to == model.OrderStatusDelivered || to == model.OrderStatusCancelled
	default:
		// Delivered / Cancelled は終端
		return false
	}
}

// ステータス更新（Cancelledへ遷移したら在庫戻し）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !model.IsValidOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "Invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// すでに同じなら何もしない（200）
		if o.Status == newStatus {
			return nil
		}

		if u.statusPolicy == config.StatusPolicyStrict && !canTransitionStrict(o.Status, newStatus) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot change status from %s to %s", o.Status, newStatus))
		}

		// キャンセルになったときだけ在庫戻し
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		// キャンセル解除（openポリシーのみ到達）は在庫を取り直す
		// 足りなければ失敗。戻し→解除→再戻しで在庫が増殖しないように
		if o.Status == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			for _, it := range items {
				ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				if !ok {
					return NewHTTPError(http.StatusBadRequest,
						fmt.Sprintf("Insufficient stock to reinstate %s", it.Name))
				}
			}
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "Order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）。失敗しても更新自体は成立させる
		_ = u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + beforeStatus + `"}`,
			AfterJSON:    `{"status":"` + string(newStatus) + `"}`,
			CreatedAt:    time.Now(),
		})

		return nil
	})
}

// メモ更新（自由テキストの置き換え）
func (u *AdminOrderUsecase) UpdateNotes(ctx context.Context, actorAdminUserID int64, orderID int64, notes string) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.orderRepo.UpdateNotes(ctx, orderID, notes)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionUpdateOrderNotes,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		CreatedAt:    time.Now(),
	})

	return nil
}

type DashboardStats struct {
	TotalOrders   int64   `json:"totalOrders"`
	PendingOrders int64   `json:"pendingOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalProducts int64   `json:"totalProducts"`
}

// ダッシュボード統計（スナップショット読み。厳密な一貫性は求めない）
func (u *AdminOrderUsecase) Stats(ctx context.Context) (DashboardStats, error) {
	totalOrders, err := u.orderRepo.CountAll(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pending, err := u.orderRepo.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 売上はキャンセルを除く全注文のtotal合計
	revenue, err := u.orderRepo.SumTotalExcludingStatus(ctx, model.OrderStatusCancelled)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.productRepo.CountActive(ctx)
	if err != nil {
		return DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DashboardStats{
		TotalOrders:   totalOrders,
		PendingOrders: pending,
		TotalRevenue:  roundToCents(revenue),
		TotalProducts: products,
	}, nil
}

// CSVエクスポート。ids空なら全件。
// 列順は固定: Order ID, Customer Name, Customer Email, Total, Status, Created At
func (u *AdminOrderUsecase) ExportCSV(ctx context.Context, orderIDs []int64) ([]byte, error) {
	orders, err := u.orderRepo.ListByIDs(ctx, orderIDs)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	users := u.customerMap(ctx, orders)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Order ID", "Customer Name", "Customer Email", "Total", "Status", "Created At"}); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	for _, o := range orders {
		name := ""
		email := ""
		if cu, ok := users[o.UserID]; ok {
			name = cu.Name
			email = cu.Email
		}

		row := []string{
			o.OrderID,
			name,
			email,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			string(o.Status),
			o.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "export failed")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "export failed")
	}

	return buf.Bytes(), nil
}

// 注文の並びに顧客名/メールを付ける（引けなくても失敗にしない）
func (u *AdminOrderUsecase) attachCustomers(ctx context.Context, orders []AdminOrderOutput) {
	ids := make([]int64, 0, len(orders))
	seen := map[int64]bool{}
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}

	users, err := u.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return
	}

	byID := make(map[int64]model.User, len(users))
	for _, us := range users {
		byID[us.ID] = us
	}

	for i := range orders {
		if us, ok := byID[orders[i].UserID]; ok {
			orders[i].CustomerName = us.Name
			orders[i].CustomerEmail = us.Email
		}
	}
}

func (u *AdminOrderUsecase) customerMap(ctx context.Context, orders []model.Order) map[int64]model.User {
	ids := make([]int64, 0, len(orders))
	seen := map[int64]bool{}
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}

	byID := map[int64]model.User{}
	users, err := u.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return byID
	}
	for _, us := range users {
		byID[us.ID] = us
	}
	return byID
}
