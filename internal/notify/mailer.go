package notify

import "context"

// 注文確認メールの送信だけを約束する。
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, toName string, orderID int64, totalPrice int64) error
}

// メール未設定の環境用。何もしない。
type NoopMailer struct{}

func (NoopMailer) SendOrderConfirmation(ctx context.Context, toEmail string, toName string, orderID int64, totalPrice int64) error {
	return nil
}
