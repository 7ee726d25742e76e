package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"app/internal/client"

	"github.com/stretchr/testify/assert"
)

// ゲストカート移行のテスト用サーバー。
// product 2 だけ常に失敗する。
func newMigrateServer(t *testing.T, addCalls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/cart":
			atomic.AddInt32(addCalls, 1)

			var req struct {
				ProductID int64 `json:"product_id"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			if req.ProductID == 2 {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid product"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"success": true,
				"cart":    client.Cart{Items: []client.CartItem{{ProductID: req.ProductID, Quantity: 1}}},
			})

		case r.Method == http.MethodGet && r.URL.Path == "/cart":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"cart": client.Cart{
					Items: []client.CartItem{{ID: 1, ProductID: 1, Quantity: 1}, {ID: 2, ProductID: 3, Quantity: 2}},
					Total: 999,
				},
			})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCartMigrator_Migrate(t *testing.T) {
	ctx := context.Background()

	t.Run("1件の失敗で止まらず、ローカルは必ず消える", func(t *testing.T) {
		var addCalls int32
		srv := newMigrateServer(t, &addCalls)
		defer srv.Close()

		storage := client.NewMemoryGuestStorage()
		storage.Add(client.GuestItem{ProductID: 1, Quantity: 1})
		storage.Add(client.GuestItem{ProductID: 2, Quantity: 1}) //サーバー側で失敗する
		storage.Add(client.GuestItem{ProductID: 3, Quantity: 2})

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("t")), nil)
		m := client.NewCartMigrator(storage, store)

		var notified int
		m.OnMigrated = func(count int) { notified = count }

		err := m.Migrate(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&addCalls))
		//失敗した分も含めてローカルは空
		assert.Empty(t, storage.Items())
		//最後にサーバーのカートを取り直している
		assert.Len(t, store.Snapshot().Items, 2)
		assert.Equal(t, 2, notified)
	})

	t.Run("全件失敗でも移すものがあれば通知は出る", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/cart" {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid product"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "cart": client.Cart{}})
		}))
		defer srv.Close()

		storage := client.NewMemoryGuestStorage()
		storage.Add(client.GuestItem{ProductID: 2, Quantity: 1})

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("t")), nil)
		m := client.NewCartMigrator(storage, store)

		called := false
		var count int
		m.OnMigrated = func(c int) { called = true; count = c }

		assert.NoError(t, m.Migrate(ctx))
		assert.True(t, called)
		assert.Equal(t, 0, count)
		assert.Empty(t, storage.Items())
	})

	t.Run("ローカルが空なら通知も出ない", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "cart": client.Cart{}})
		}))
		defer srv.Close()

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("t")), nil)
		m := client.NewCartMigrator(client.NewMemoryGuestStorage(), store)

		called := false
		m.OnMigrated = func(int) { called = true }

		assert.NoError(t, m.Migrate(ctx))
		assert.False(t, called)
	})

	t.Run("同一セッションで2回目は何もしない", func(t *testing.T) {
		var addCalls int32
		srv := newMigrateServer(t, &addCalls)
		defer srv.Close()

		storage := client.NewMemoryGuestStorage()
		storage.Add(client.GuestItem{ProductID: 1, Quantity: 1})

		store := client.NewCartStore(client.NewAPI(srv.URL, staticToken("t")), nil)
		m := client.NewCartMigrator(storage, store)

		assert.NoError(t, m.Migrate(ctx))
		first := atomic.LoadInt32(&addCalls)

		//2回目（ストレージに残っていても動かない）
		storage.Add(client.GuestItem{ProductID: 3, Quantity: 1})
		assert.NoError(t, m.Migrate(ctx))

		assert.Equal(t, first, atomic.LoadInt32(&addCalls))

		//Reset後は再び移行できる
		m.Reset()
		assert.NoError(t, m.Migrate(ctx))
		assert.Greater(t, atomic.LoadInt32(&addCalls), first)
	})
}
