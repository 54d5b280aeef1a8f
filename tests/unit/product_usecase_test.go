package unit

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（Product向け：衝突回避）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) ListAdmin(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]model.Category)
	return categories, args.Error(1)
}

func (m *ProdProductRepoMock) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProdProductRepoMock) CountActive(ctx context.Context) (int64, error) {
	panic("not used in ProductUsecase tests")
}

type ProdInventoryRepoMock struct{ mock.Mock }

func (m *ProdInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProdInventoryRepoMock) SetStockWithAdjustment(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) error {
	args := m.Called(ctx, adminUserID, productID, newStock, reason)
	return args.Error(0)
}

type ProdAuditRepoMock struct{ mock.Mock }

func (m *ProdAuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func newProductUsecase() (*usecase.ProductUsecase, *ProdProductRepoMock, *ProdInventoryRepoMock, *ProdAuditRepoMock) {
	pRepo := new(ProdProductRepoMock)
	iRepo := new(ProdInventoryRepoMock)
	aRepo := new(ProdAuditRepoMock)
	return usecase.NewProductUsecase(pRepo, iRepo, aRepo), pRepo, iRepo, aRepo
}

// =====================
// Public list / detail
// =====================

func TestListPublicProducts_InvalidPage(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 12})
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "invalid page")
}

func TestListPublicProducts_InvalidSort(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 12, Sort: "rating"})
	assertErrContains(t, err, "invalid sort")
}

func TestListPublicProducts_PriceRangeInverted(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	min := 100.0
	max := 50.0
	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 12, MinPrice: &min, MaxPrice: &max,
	})
	assertErrContains(t, err, "minPrice must be <= maxPrice")
}

func TestListPublicProducts_Success(t *testing.T) {
	ctx := context.Background()
	uc, pRepo, _, _ := newProductUsecase()

	q := repo.ProductListQuery{Page: 1, Limit: 12, Search: "mouse", Sort: "price-asc"}
	pRepo.On("ListPublic", mock.Anything, q).Return([]model.Product{
		{ID: 1, Name: "Mouse"},
	}, int64(25), nil)

	out, err := uc.ListPublicProducts(ctx, usecase.ListProductsInput{Page: 1, Limit: 12, Search: "mouse", Sort: "price-asc"})
	assert.NoError(t, err)
	assert.Equal(t, int64(25), out.Total)
	assert.Equal(t, 3, out.Pages)
	assert.Len(t, out.Products, 1)
}

func TestGetProductDetail_DeletedIsHidden(t *testing.T) {
	uc, pRepo, _, _ := newProductUsecase()

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsDeleted: true}, nil)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertHTTPStatus(t, err, http.StatusNotFound)
	assertErrContains(t, err, "Product not found")
}

func TestGetProductBySlug_NotFound(t *testing.T) {
	uc, pRepo, _, _ := newProductUsecase()

	pRepo.On("FindBySlug", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductBySlug(context.Background(), "missing")
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// Admin create / update / delete
// =====================

func TestAdminCreateProduct_SlugConflict(t *testing.T) {
	uc, pRepo, _, _ := newProductUsecase()

	pRepo.On("ExistsBySlug", mock.Anything, "wireless-mouse").Return(true, nil)

	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name:        "Wireless Mouse",
		Slug:        "Wireless-Mouse",
		Description: "2.4GHz",
		Price:       29.99,
		Category:    string(model.CategoryElectronics),
		Stock:       10,
	})
	assertHTTPStatus(t, err, http.StatusConflict)
	assertErrContains(t, err, "slug already exists")
}

// slugは小文字化して保存する
func TestAdminCreateProduct_Success(t *testing.T) {
	uc, pRepo, _, aRepo := newProductUsecase()

	pRepo.On("ExistsBySlug", mock.Anything, "wireless-mouse").Return(false, nil)
	pRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Slug == "wireless-mouse" && p.Name == "Wireless Mouse" && p.Images != nil
	})).Return(model.Product{ID: 9, Slug: "wireless-mouse"}, nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateProduct && l.ResourceID == 9
	})).Return(nil)

	p, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name:        "Wireless Mouse",
		Slug:        "Wireless-Mouse",
		Description: "2.4GHz",
		Price:       29.99,
		Category:    string(model.CategoryElectronics),
		Stock:       10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)

	aRepo.AssertExpectations(t)
}

func TestAdminCreateProduct_InvalidCategory(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	_, err := uc.AdminCreateProduct(context.Background(), 1, usecase.AdminProductInput{
		Name:        "Thing",
		Slug:        "thing",
		Description: "x",
		Category:    "Gadgets",
	})
	assertErrContains(t, err, "invalid category")
}

// slugを変えないなら重複チェックしない
func TestAdminUpdateProduct_SameSlugSkipsConflictCheck(t *testing.T) {
	uc, pRepo, _, aRepo := newProductUsecase()

	current := model.Product{ID: 9, Slug: "wireless-mouse", Images: []string{"a.jpg"}}
	pRepo.On("FindByID", mock.Anything, int64(9)).Return(current, nil).Once()
	pRepo.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		// Imagesがnil入力なら既存を引き継ぐ
		return p.ID == 9 && len(p.Images) == 1
	})).Return(nil)
	aRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	pRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9, Slug: "wireless-mouse", Price: 19.99}, nil)

	p, err := uc.AdminUpdateProduct(context.Background(), 1, 9, usecase.AdminProductInput{
		Name:        "Wireless Mouse",
		Slug:        "wireless-mouse",
		Description: "2.4GHz",
		Price:       19.99,
		Category:    string(model.CategoryElectronics),
	})
	assert.NoError(t, err)
	assert.InDelta(t, 19.99, p.Price, 1e-6)

	pRepo.AssertNotCalled(t, "ExistsBySlug", mock.Anything, mock.Anything)
}

func TestAdminDeleteProduct_NotFound(t *testing.T) {
	uc, pRepo, _, _ := newProductUsecase()

	pRepo.On("SoftDelete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.AdminDeleteProduct(context.Background(), 1, 99)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAdminDeleteProduct_Success(t *testing.T) {
	uc, pRepo, _, aRepo := newProductUsecase()

	pRepo.On("SoftDelete", mock.Anything, int64(9)).Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteProduct && l.ResourceID == 9
	})).Return(nil)

	err := uc.AdminDeleteProduct(context.Background(), 1, 9)
	assert.NoError(t, err)
	aRepo.AssertExpectations(t)
}

// =====================
// Inventory
// =====================

func TestAdminUpdateInventory_Success(t *testing.T) {
	uc, pRepo, iRepo, aRepo := newProductUsecase()

	pRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9, Stock: 3}, nil)
	iRepo.On("SetStockWithAdjustment", mock.Anything, int64(1), int64(9), int64(20), "restock").Return(nil)
	aRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.BeforeJSON == `{"stock":3}` && l.AfterJSON == `{"stock":20}`
	})).Return(nil)

	err := uc.AdminUpdateInventory(context.Background(), 1, 9, 20, "restock")
	assert.NoError(t, err)
	aRepo.AssertExpectations(t)
}

func TestAdminUpdateInventory_NegativeStock(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	err := uc.AdminUpdateInventory(context.Background(), 1, 9, -1, "oops")
	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "stock must be >= 0")
}

func TestAdminUpdateInventory_ReasonRequired(t *testing.T) {
	uc, _, _, _ := newProductUsecase()

	err := uc.AdminUpdateInventory(context.Background(), 1, 9, 5, "  ")
	assertErrContains(t, err, "reason required")
}
