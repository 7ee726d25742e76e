package client

import (
	"context"
	"errors"
	"sync"
)

// 商品IDが特定できない入力（商品でもカート明細でもない）
var ErrInvalidItem = errors.New("invalid item")

// WishlistStore はクライアント側の「あとで買う」状態。
// CartStore同様、サーバーのレスポンスで丸ごと置き換える。
type WishlistStore struct {
	api      *API
	cart     *CartStore
	notifier Notifier

	mu    sync.RWMutex
	items []WishlistItem
}

func NewWishlistStore(api *API, cart *CartStore, notifier Notifier) *WishlistStore {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &WishlistStore{api: api, cart: cart, notifier: notifier}
}

func (s *WishlistStore) Snapshot() []WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *WishlistStore) replace(items []WishlistItem, silent bool) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	if !silent {
		s.notifier.WishlistChanged(items)
	}
}

func (s *WishlistStore) Load(ctx context.Context) error {
	items, err := s.api.GetWishlist(ctx)
	if err != nil {
		return err
	}
	s.replace(items, false)
	return nil
}

// SaveForLaterの入力。商品詳細からでもカート明細からでも呼べる。
// 商品ならProductID、カート明細ならCartItemIDとProductIDが入る。
type SaveForLaterInput struct {
	ProductID  int64
	CartItemID int64
}

// 商品ページからの保存入力を正規化する。
func SaveInputFromProduct(productID int64) SaveForLaterInput {
	return SaveForLaterInput{ProductID: productID}
}

// カート明細からの保存入力を正規化する。
func SaveInputFromCartItem(it CartItem) SaveForLaterInput {
	return SaveForLaterInput{ProductID: it.ProductID, CartItemID: it.ID}
}

// あとで買うに移す。
// ウィッシュリスト追加とカートからの削除は別々のAPI呼び出しで、
// 追加が成功（または既に保存済み）したときだけカートから消す。
func (s *WishlistStore) SaveForLater(ctx context.Context, in SaveForLaterInput) error {
	if in.ProductID <= 0 {
		return ErrInvalidItem
	}

	items, err := s.api.SaveToWishlist(ctx, in.ProductID)
	if err != nil {
		var conflict *WishlistConflictError
		if errors.As(err, &conflict) {
			//既に保存済み。サーバーの一覧を採用して続行。
			s.replace(conflict.Items, false)
		} else {
			return err
		}
	} else {
		s.replace(items, false)
	}

	//カート明細からの移動なら、カート側も消す
	if in.CartItemID > 0 && s.cart != nil {
		if err := s.cart.Remove(ctx, in.CartItemID); err != nil {
			return err
		}
	}
	return nil
}

// カートに戻す。
// 「already in cart」はソフト成功扱い。サーバーのカートを採用するが、
// ウィッシュリスト側のエントリは残す（数量を増やさない以上、
// 勝手に消すとユーザーの手がかりが失われるため）。
// 新規に入ったときだけウィッシュリストから消す。
func (s *WishlistStore) MoveToCart(ctx context.Context, item WishlistItem) error {
	if item.ProductID <= 0 {
		return ErrInvalidItem
	}

	already, err := s.cart.Add(ctx, item.ProductID, 1)
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	//後始末の削除。ユーザー向け通知は出さない。
	return s.Remove(ctx, item.ID, true)
}

// 削除。silentなら通知を出さない（移動の後始末用）。
func (s *WishlistStore) Remove(ctx context.Context, itemID int64, silent bool) error {
	items, err := s.api.RemoveFromWishlist(ctx, itemID)
	if err != nil {
		return err
	}
	s.replace(items, silent)
	return nil
}

func (s *WishlistStore) ResetLocal() {
	s.replace(nil, false)
}
