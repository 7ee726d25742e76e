package usecase_test

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: CartRepository
// =====================

type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *MockCartRepo) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *MockCartRepo) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// =====================
// Mock: CartItemRepository
// =====================

type MockCartItemRepo struct {
	mock.Mock
}

func (m *MockCartItemRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *MockCartItemRepo) Insert(ctx context.Context, item model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *MockCartItemRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *MockCartItemRepo) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *MockCartItemRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *MockCartItemRepo) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *MockCartItemRepo) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: WishlistRepository
// =====================

type MockWishlistRepo struct {
	mock.Mock
}

func (m *MockWishlistRepo) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.WishlistItem)
	return items, args.Error(1)
}

func (m *MockWishlistRepo) Insert(ctx context.Context, item model.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepo) DeleteByID(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockWishlistRepo) FindByID(ctx context.Context, itemID int64) (model.WishlistItem, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(model.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepo) IsOwnedByUser(ctx context.Context, itemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: ProductRepository
// =====================

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepo) RepriceByPurity(ctx context.Context, purity model.Purity, numerator int64, denominator int64) (int64, error) {
	args := m.Called(ctx, purity, numerator, denominator)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Mock: OrderRepository
// =====================

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderRepo) FindByMerchantOrderID(ctx context.Context, merchantOrderID string) (model.Order, error) {
	args := m.Called(ctx, merchantOrderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *MockOrderRepo) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepo) UpdateTransactionID(ctx context.Context, orderID int64, transactionID string) error {
	args := m.Called(ctx, orderID, transactionID)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

func (m *MockOrderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

// =====================
// Mock: OrderItemRepository
// =====================

type MockOrderItemRepo struct {
	mock.Mock
}

func (m *MockOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *MockOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// =====================
// Mock: StatusHistoryRepository
// =====================

type MockStatusHistoryRepo struct {
	mock.Mock
}

func (m *MockStatusHistoryRepo) Append(ctx context.Context, entry model.StatusHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatusHistoryRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error) {
	args := m.Called(ctx, orderID)
	entries, _ := args.Get(0).([]model.StatusHistory)
	return entries, args.Error(1)
}

func (m *MockStatusHistoryRepo) Latest(ctx context.Context, orderID int64) (model.StatusHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.StatusHistory), args.Error(1)
}

// =====================
// Mock: InventoryRepository
// =====================

type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *MockInventoryRepo) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepo) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *MockInventoryRepo) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

// =====================
// Mock: GoldRateRepository
// =====================

type MockGoldRateRepo struct {
	mock.Mock
}

func (m *MockGoldRateRepo) Latest(ctx context.Context) (model.GoldRate, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.GoldRate), args.Error(1)
}

func (m *MockGoldRateRepo) Create(ctx context.Context, rate model.GoldRate) (model.GoldRate, error) {
	args := m.Called(ctx, rate)
	return args.Get(0).(model.GoldRate), args.Error(1)
}

// =====================
// Mock: AuditLogRepository
// =====================

type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepo) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Fake: TransactionManager
// =====================

// Txをそのまま素通しするフェイク。中のrepoは全部Mock。
type fakeTxRepos struct {
	orders    *MockOrderRepo
	items     *MockOrderItemRepo
	histories *MockStatusHistoryRepo
	carts     *MockCartRepo
	cartItems *MockCartItemRepo
	wishlist  *MockWishlistRepo
	inventory *MockInventoryRepo
	products  *MockProductRepo
	goldRates *MockGoldRateRepo
	auditLogs *MockAuditLogRepo
}

func newFakeTxRepos() *fakeTxRepos {
	return &fakeTxRepos{
		orders:    new(MockOrderRepo),
		items:     new(MockOrderItemRepo),
		histories: new(MockStatusHistoryRepo),
		carts:     new(MockCartRepo),
		cartItems: new(MockCartItemRepo),
		wishlist:  new(MockWishlistRepo),
		inventory: new(MockInventoryRepo),
		products:  new(MockProductRepo),
		goldRates: new(MockGoldRateRepo),
		auditLogs: new(MockAuditLogRepo),
	}
}

func (f *fakeTxRepos) Orders() repo.OrderRepository                  { return f.orders }
func (f *fakeTxRepos) OrderItems() repo.OrderItemRepository          { return f.items }
func (f *fakeTxRepos) StatusHistories() repo.StatusHistoryRepository { return f.histories }
func (f *fakeTxRepos) Carts() repo.CartRepository                    { return f.carts }
func (f *fakeTxRepos) CartItems() repo.CartItemRepository            { return f.cartItems }
func (f *fakeTxRepos) Wishlist() repo.WishlistRepository             { return f.wishlist }
func (f *fakeTxRepos) Inventory() repo.InventoryRepository           { return f.inventory }
func (f *fakeTxRepos) Products() repo.ProductRepository              { return f.products }
func (f *fakeTxRepos) GoldRates() repo.GoldRateRepository            { return f.goldRates }
func (f *fakeTxRepos) AuditLogs() repo.AuditLogRepository            { return f.auditLogs }

type fakeTxManager struct {
	repos *fakeTxRepos
	calls int
}

func newFakeTxManager() *fakeTxManager {
	return &fakeTxManager{repos: newFakeTxRepos()}
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	f.calls++
	return fn(f.repos)
}
