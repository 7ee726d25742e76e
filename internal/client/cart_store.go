package client

import (
	"context"
	"errors"
	"sync"
)

// CartStore はクライアント側のカート状態。
// ローカル状態は常にサーバーのレスポンスで丸ごと置き換える。
// 差分マージはしない（サーバーが正）。
type CartStore struct {
	api      *API
	notifier Notifier

	mu   sync.RWMutex
	cart Cart
}

func NewCartStore(api *API, notifier Notifier) *CartStore {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &CartStore{api: api, notifier: notifier}
}

func (s *CartStore) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Cart{Total: s.cart.Total, Items: make([]CartItem, len(s.cart.Items))}
	copy(out.Items, s.cart.Items)
	return out
}

func (s *CartStore) replace(cart Cart) {
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
	s.notifier.CartChanged(cart)
}

func (s *CartStore) Load(ctx context.Context) error {
	cart, err := s.api.GetCart(ctx)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

// 追加。既にカートにある商品なら409が返り、同梱されたサーバーの
// カートをそのまま採用する（数量は変えない）。
// 戻り値は「既にあったか」。
func (s *CartStore) Add(ctx context.Context, productID int64, quantity int64) (bool, error) {
	cart, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		var conflict *CartConflictError
		if errors.As(err, &conflict) {
			s.replace(conflict.Cart)
			return true, nil
		}
		return false, err
	}
	s.replace(cart)
	return false, nil
}

// 数量の絶対値更新。
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error {
	cart, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

func (s *CartStore) Remove(ctx context.Context, itemID int64) error {
	cart, err := s.api.DeleteCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

func (s *CartStore) Clear(ctx context.Context) error {
	cart, err := s.api.ClearCart(ctx)
	if err != nil {
		return err
	}
	s.replace(cart)
	return nil
}

// ログアウト時などにローカル状態だけ空にする。
func (s *CartStore) ResetLocal() {
	s.replace(Cart{})
}
