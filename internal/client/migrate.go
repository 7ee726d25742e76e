package client

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// ゲスト（未ログイン）時にローカルへ溜めたカート。
type GuestItem struct {
	ProductID int64
	Quantity  int64
}

// GuestStorage はローカル保存の読み書き。
type GuestStorage interface {
	Items() []GuestItem
	Clear()
}

// CartMigrator はログイン直後に1回だけ、ゲストカートを
// サーバーのカートへ移す。
type CartMigrator struct {
	storage GuestStorage
	cart    *CartStore

	//移すべきアイテムが1件でもあったとき、成功数とともに呼ばれる（省略可）
	OnMigrated func(count int)

	mu   sync.Mutex
	done bool
}

func NewCartMigrator(storage GuestStorage, cart *CartStore) *CartMigrator {
	return &CartMigrator{storage: storage, cart: cart}
}

// Migrateは同一セッションで2回目以降は何もしない。
// 各アイテムは順に追加し、1件の失敗で全体を止めない。
// ローカルは成功・失敗にかかわらず必ず空にし、最後にサーバーの
// カートを取り直してローカル状態を揃える。
func (m *CartMigrator) Migrate(ctx context.Context) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	m.mu.Unlock()

	items := m.storage.Items()

	attempted := 0
	migrated := 0
	for _, it := range items {
		if it.ProductID <= 0 {
			continue
		}
		attempted++
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}

		//既にカートにある分は409で吸収される（数量は変わらない）
		if _, err := m.cart.Add(ctx, it.ProductID, qty); err != nil {
			logrus.WithError(err).WithField("product_id", it.ProductID).Warn("guest cart item migration failed")
			continue
		}
		migrated++
	}

	//失敗分を持ち越すと次のログインで二重移行になるため必ず消す
	m.storage.Clear()

	if err := m.cart.Load(ctx); err != nil {
		return err
	}

	//全件失敗でも、移すものがあった事実は利用者に伝える
	if attempted > 0 && m.OnMigrated != nil {
		m.OnMigrated(migrated)
	}
	return nil
}

// ログアウト時に呼ぶ。次のログインで再び移行できるようにする。
func (m *CartMigrator) Reset() {
	m.mu.Lock()
	m.done = false
	m.mu.Unlock()
}

// メモリ実装。テストと組み込み用途向け。
type MemoryGuestStorage struct {
	mu    sync.Mutex
	items []GuestItem
}

func NewMemoryGuestStorage() *MemoryGuestStorage {
	return &MemoryGuestStorage{}
}

func (s *MemoryGuestStorage) Add(item GuestItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ProductID == item.ProductID {
			s.items[i].Quantity = item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

func (s *MemoryGuestStorage) Items() []GuestItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GuestItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *MemoryGuestStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
