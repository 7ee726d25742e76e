package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	StatusHistories() StatusHistoryRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Wishlist() WishlistRepository
	Inventory() InventoryRepository
	Products() ProductRepository
	GoldRates() GoldRateRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
