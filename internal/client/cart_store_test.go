package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"app/internal/client"

	"github.com/stretchr/testify/assert"
)

func staticToken(t string) client.TokenSource {
	return func() string { return t }
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCartStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("成功レスポンスでローカル状態を丸ごと置き換える", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"success": true,
				"cart": client.Cart{
					Items: []client.CartItem{{ID: 1, ProductID: 10, Name: "Gold Ring", Price: 250000, Quantity: 1}},
					Total: 250000,
				},
			})
		}))
		defer srv.Close()

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("token-1")), nil)

		already, err := store.Add(ctx, 10, 1)

		assert.NoError(t, err)
		assert.False(t, already)
		snap := store.Snapshot()
		assert.Len(t, snap.Items, 1)
		assert.Equal(t, int64(250000), snap.Total)
	})

	t.Run("409は同梱カートを採用してソフト成功", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false,
				"error":   "already in cart",
				"cart": client.Cart{
					Items: []client.CartItem{{ID: 1, ProductID: 10, Quantity: 3, Price: 250000}},
					Total: 750000,
				},
			})
		}))
		defer srv.Close()

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("t")), nil)

		already, err := store.Add(ctx, 10, 1)

		assert.NoError(t, err)
		assert.True(t, already)
		//サーバー側の数量3がそのまま採用される
		snap := store.Snapshot()
		assert.Equal(t, int64(3), snap.Items[0].Quantity)
		assert.Equal(t, int64(750000), snap.Total)
	})

	t.Run("未ログインはErrAuthRequired、リクエストは飛ばない", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer srv.Close()

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("")), nil)

		_, err := store.Add(ctx, 10, 1)

		assert.ErrorIs(t, err, client.ErrAuthRequired)
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})
}

type recordingNotifier struct {
	mu            sync.Mutex
	cartTotals    []int64
	wishlistCalls int32
}

func (n *recordingNotifier) CartChanged(c client.Cart) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cartTotals = append(n.cartTotals, c.Total)
}

func (n *recordingNotifier) WishlistChanged([]client.WishlistItem) { atomic.AddInt32(&n.wishlistCalls, 1) }

func (n *recordingNotifier) totals() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]int64, len(n.cartTotals))
	copy(out, n.cartTotals)
	return out
}

func TestDebouncedNotifier(t *testing.T) {
	t.Run("窓内の連打は最初の1回だけ届く", func(t *testing.T) {
		rec := &recordingNotifier{}
		d := client.NewDebouncedNotifier(rec, 500*time.Millisecond)

		d.CartChanged(client.Cart{Total: 1})
		time.Sleep(100 * time.Millisecond)
		d.CartChanged(client.Cart{Total: 2})

		//最初の通知が即時に出て、2回目は捨てられる
		assert.Equal(t, []int64{1}, rec.totals())
	})

	t.Run("窓が明ければ次の通知が届く", func(t *testing.T) {
		rec := &recordingNotifier{}
		d := client.NewDebouncedNotifier(rec, 20*time.Millisecond)

		d.CartChanged(client.Cart{Total: 1})
		d.CartChanged(client.Cart{Total: 2})
		time.Sleep(40 * time.Millisecond)
		d.CartChanged(client.Cart{Total: 3})

		assert.Equal(t, []int64{1, 3}, rec.totals())
	})
}
