package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"app/internal/client"

	"github.com/stretchr/testify/assert"
)

func newStatusServer(states []string, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		idx := int(n) - 1
		if idx >= len(states) {
			idx = len(states) - 1
		}
		writeJSON(w, http.StatusOK, client.PaymentStatus{State: states[idx]})
	}))
}

func TestStatusPoller_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("終端に達したら止まる", func(t *testing.T) {
		var calls int32
		srv := newStatusServer([]string{"PENDING", "COMPLETED"}, &calls)
		defer srv.Close()

		p := client.NewStatusPoller(client.NewAPI(srv.URL, staticToken("t")))
		p.SetInterval(5 * time.Millisecond)

		status, err := p.Poll(ctx, "mo_1")

		assert.NoError(t, err)
		assert.Equal(t, "COMPLETED", status.State)
		//即時1回 + リトライ1回でCOMPLETED。以降は呼ばれない。
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("即時チェックで終端なら再確認しない", func(t *testing.T) {
		var calls int32
		srv := newStatusServer([]string{"FAILED"}, &calls)
		defer srv.Close()

		p := client.NewStatusPoller(client.NewAPI(srv.URL, staticToken("t")))
		p.SetInterval(5 * time.Millisecond)

		status, err := p.Poll(ctx, "mo_1")

		assert.NoError(t, err)
		assert.Equal(t, "FAILED", status.State)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("未確定のままならリトライは3回で打ち切り", func(t *testing.T) {
		var calls int32
		srv := newStatusServer([]string{"PENDING"}, &calls)
		defer srv.Close()

		p := client.NewStatusPoller(client.NewAPI(srv.URL, staticToken("t")))
		p.SetInterval(5 * time.Millisecond)

		timedOut := false
		p.OnTimeout = func() { timedOut = true }

		var updates int32
		p.OnUpdate = func(client.PaymentStatus) { atomic.AddInt32(&updates, 1) }

		status, err := p.Poll(ctx, "mo_1")

		assert.NoError(t, err)
		assert.Equal(t, "PENDING", status.State)
		assert.True(t, timedOut)
		//即時1回 + リトライ3回
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
		assert.Equal(t, int32(4), atomic.LoadInt32(&updates))
	})

	t.Run("Stopで打ち切れる", func(t *testing.T) {
		var calls int32
		srv := newStatusServer([]string{"PENDING"}, &calls)
		defer srv.Close()

		p := client.NewStatusPoller(client.NewAPI(srv.URL, staticToken("t")))
		p.SetInterval(50 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			_, _ = p.Poll(ctx, "mo_1")
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		p.Stop()

		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
			t.Fatal("poller did not stop")
		}
		//即時チェックのみ
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
