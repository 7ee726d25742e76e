package client

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultMaxRetries   = 3
)

// StatusPoller はオンライン決済後のステータス確認。
// 即時に1回確認し、未確定なら一定間隔で最大3回まで再確認する。
// COMPLETED/FAILEDの終端状態に達したら止まる。
type StatusPoller struct {
	api      *API
	interval time.Duration
	retries  int

	//確認のたびに呼ばれる
	OnUpdate func(status PaymentStatus)
	//リトライを使い切っても未確定のまま終わったときに呼ばれる
	OnTimeout func()

	mu      sync.Mutex
	stopped chan struct{}
}

func NewStatusPoller(api *API) *StatusPoller {
	return &StatusPoller{
		api:      api,
		interval: defaultPollInterval,
		retries:  defaultMaxRetries,
		stopped:  make(chan struct{}),
	}
}

// テストで間隔を縮めるための差し込み。
func (p *StatusPoller) SetInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

func isTerminal(state string) bool {
	return state == "COMPLETED" || state == "FAILED"
}

// Poll はブロッキング。goroutineで回す想定。
// 終端に達したらその結果を返す。
func (p *StatusPoller) Poll(ctx context.Context, merchantOrderID string) (PaymentStatus, error) {
	//即時チェック
	status, err := p.check(ctx, merchantOrderID)
	if err == nil && isTerminal(status.State) {
		return status, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.retries; attempt++ {
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-p.stopped:
			return status, nil
		case <-ticker.C:
		}

		status, err = p.check(ctx, merchantOrderID)
		if err == nil && isTerminal(status.State) {
			return status, nil
		}
	}

	if p.OnTimeout != nil {
		p.OnTimeout()
	}
	return status, nil
}

func (p *StatusPoller) check(ctx context.Context, merchantOrderID string) (PaymentStatus, error) {
	status, err := p.api.PaymentOrderStatus(ctx, merchantOrderID)
	if err != nil {
		logrus.WithError(err).WithField("merchant_order_id", merchantOrderID).Warn("payment status check failed")
		return PaymentStatus{}, err
	}

	if p.OnUpdate != nil {
		p.OnUpdate(status)
	}
	return status, nil
}

// 画面遷移などで確認を打ち切る。
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.stopped:
	default:
		close(p.stopped)
	}
}
