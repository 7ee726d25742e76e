package client

import (
	"sync"
	"time"
)

// Notifier は状態変化の通知先（UIのバッジ更新など）。
type Notifier interface {
	CartChanged(cart Cart)
	WishlistChanged(items []WishlistItem)
}

type NoopNotifier struct{}

func (NoopNotifier) CartChanged(Cart)             {}
func (NoopNotifier) WishlistChanged([]WishlistItem) {}

// DebouncedNotifier は最初の通知を即時に出し、そこから500ms以内の
// 連打は捨てる。遅延させないので単発の通知はそのまま届く。
type DebouncedNotifier struct {
	next  Notifier
	delay time.Duration

	mu            sync.Mutex
	cartUntil     time.Time
	wishlistUntil time.Time
}

func NewDebouncedNotifier(next Notifier, delay time.Duration) *DebouncedNotifier {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &DebouncedNotifier{next: next, delay: delay}
}

func (d *DebouncedNotifier) CartChanged(cart Cart) {
	d.mu.Lock()
	now := time.Now()
	if now.Before(d.cartUntil) {
		d.mu.Unlock()
		return
	}
	d.cartUntil = now.Add(d.delay)
	d.mu.Unlock()

	d.next.CartChanged(cart)
}

func (d *DebouncedNotifier) WishlistChanged(items []WishlistItem) {
	d.mu.Lock()
	now := time.Now()
	if now.Before(d.wishlistUntil) {
		d.mu.Unlock()
		return
	}
	d.wishlistUntil = now.Add(d.delay)
	d.mu.Unlock()

	d.next.WishlistChanged(items)
}
