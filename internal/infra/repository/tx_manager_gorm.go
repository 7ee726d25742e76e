package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders    repo.OrderRepository
	items     repo.OrderItemRepository
	histories repo.StatusHistoryRepository
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	wishlist  repo.WishlistRepository
	inventory repo.InventoryRepository
	products  repo.ProductRepository
	goldRates repo.GoldRateRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                  { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository          { return r.items }
func (r *txReposGorm) StatusHistories() repo.StatusHistoryRepository { return r.histories }
func (r *txReposGorm) Carts() repo.CartRepository                    { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository            { return r.cartItems }
func (r *txReposGorm) Wishlist() repo.WishlistRepository             { return r.wishlist }
func (r *txReposGorm) Inventory() repo.InventoryRepository           { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository              { return r.products }
func (r *txReposGorm) GoldRates() repo.GoldRateRepository            { return r.goldRates }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository            { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		cartRepo := NewCartGormRepository(tx)
		r := &txReposGorm{
			orders:    NewOrderGormRepository(tx),
			items:     NewOrderItemGormRepository(tx),
			histories: NewStatusHistoryGormRepository(tx),
			carts:     cartRepo,
			cartItems: cartRepo,
			wishlist:  NewWishlistGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
			products:  NewProductGormRepository(tx),
			goldRates: NewGoldRateGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
