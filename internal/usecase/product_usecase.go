package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 在庫不足（商品名と残数を返す）
func NewInsufficientStockError(productName string, available int64) error {
	return NewHTTPError(http.StatusBadRequest,
		fmt.Sprintf("Insufficient stock for %s. Available: %d", productName, available))
}

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	auditRepo     repo.AuditLogRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	auditRepo repo.AuditLogRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string

	// 管理者一覧のみ
	IncludeDeleted bool
}

type ProductListOutput struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
}

func pageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (u *ProductUsecase) validateListInput(in ListProductsInput) error {
	if in.Page < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Search) > 100 {
		return NewHTTPError(http.StatusBadRequest, "search too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "minPrice must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return NewHTTPError(http.StatusBadRequest, "maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return NewHTTPError(http.StatusBadRequest, "minPrice must be <= maxPrice")
	}
	switch in.Sort {
	case "", "newest", "price-asc", "price-desc", "name":
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid sort")
	}
	return nil
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if err := u.validateListInput(in); err != nil {
		return ProductListOutput{}, err
	}

	products, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Category: strings.TrimSpace(in.Category),
		Search:   strings.TrimSpace(in.Search),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Products: products,
		Total:    total,
		Page:     in.Page,
		Pages:    pageCount(total, in.Limit),
	}, nil
}

// 公開商品の詳細（削除済みは存在しない扱い）
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if p.IsDeleted {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return p, nil
}

// slugで公開商品を取得
func (u *ProductUsecase) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	p, err := u.productRepo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if p.IsDeleted {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return p, nil
}

// 非削除商品のカテゴリ一覧
func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

// 管理者一覧（削除済みも選択的に含む）
func (u *ProductUsecase) AdminListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if err := u.validateListInput(in); err != nil {
		return ProductListOutput{}, err
	}

	products, total, err := u.productRepo.ListAdmin(ctx, repo.ProductListQuery{
		Page:           in.Page,
		Limit:          in.Limit,
		Category:       strings.TrimSpace(in.Category),
		Search:         strings.TrimSpace(in.Search),
		MinPrice:       in.MinPrice,
		MaxPrice:       in.MaxPrice,
		Sort:           in.Sort,
		IncludeDeleted: in.IncludeDeleted,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Products: products,
		Total:    total,
		Page:     in.Page,
		Pages:    pageCount(total, in.Limit),
	}, nil
}

// 管理者詳細（削除済みも取得できる）
func (u *ProductUsecase) AdminGetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type AdminProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       float64
	Category    string
	Stock       int64
	Weight      float64
	Images      []string
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return NewHTTPError(http.StatusBadRequest, "slug required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewHTTPError(http.StatusBadRequest, "description required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if !model.IsValidCategory(model.Category(in.Category)) {
		return NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.Weight < 0 {
		return NewHTTPError(http.StatusBadRequest, "weight must be >= 0")
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	slug := strings.ToLower(strings.TrimSpace(in.Slug))

	// slug重複は409
	exists, err := u.productRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Product{}, NewHTTPError(http.StatusConflict, "Product with this slug already exists")
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Category:    model.Category(in.Category),
		Stock:       in.Stock,
		Weight:      in.Weight,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err == repo.ErrConflict {
		// 事前チェックとCreateの間に同じslugで作られた場合
		return model.Product{}, NewHTTPError(http.StatusConflict, "Product with this slug already exists")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionCreateProduct, p.ID, "", fmt.Sprintf(`{"slug":%q}`, p.Slug))

	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	current, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	slug := strings.ToLower(strings.TrimSpace(in.Slug))

	// slugを変えるときだけ重複チェック
	if slug != current.Slug {
		exists, err := u.productRepo.ExistsBySlug(ctx, slug)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if exists {
			return model.Product{}, NewHTTPError(http.StatusConflict, "Product with this slug already exists")
		}
	}

	images := in.Images
	if images == nil {
		images = current.Images
	}

	updated := model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Category:    model.Category(in.Category),
		Weight:      in.Weight,
		Images:      images,
	}

	if err := u.productRepo.Update(ctx, updated); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if err == repo.ErrConflict {
			return model.Product{}, NewHTTPError(http.StatusConflict, "Product with this slug already exists")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionUpdateProduct, productID,
		fmt.Sprintf(`{"slug":%q,"price":%v}`, current.Slug, current.Price),
		fmt.Sprintf(`{"slug":%q,"price":%v}`, slug, in.Price))

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionDeleteProduct, productID, `{"isDeleted":false}`, `{"isDeleted":true}`)

	return nil
}

// 在庫の現在値を設定（調整履歴つき）
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	//変更前の在庫（before）
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.inventoryRepo.SetStockWithAdjustment(ctx, adminUserID, productID, newStock, strings.TrimSpace(reason)); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, adminUserID, model.AuditActionUpdateStock, productID,
		fmt.Sprintf(`{"stock":%d}`, p.Stock),
		fmt.Sprintf(`{"stock":%d}`, newStock))

	return nil
}

// 監査ログは本処理を失敗させない（best effort）
func (u *ProductUsecase) audit(ctx context.Context, actorID int64, action model.AuditAction, resourceID int64, before string, after string) {
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   resourceID,
		BeforeJSON:   before,
		AfterJSON:    after,
		CreatedAt:    time.Now(),
	})
}
