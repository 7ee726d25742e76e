package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// SendGrid経由の注文確認メール。
type SendgridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendgridMailer(apiKey string, fromEmail string, fromName string) *SendgridMailer {
	return &SendgridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SendgridMailer) SendOrderConfirmation(ctx context.Context, toEmail string, toName string, orderID int64, totalPrice int64) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	subject := fmt.Sprintf("ご注文ありがとうございます（注文番号 %d）", orderID)
	plain := fmt.Sprintf("ご注文を受け付けました。注文番号: %d 合計: %d", orderID, totalPrice)
	html := fmt.Sprintf("<p>ご注文を受け付けました。</p><p>注文番号: <strong>%d</strong><br>合計: %d</p>", orderID, totalPrice)

	message := mail.NewSingleEmail(from, subject, to, plain, html)

	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"to":       toEmail,
	}).Info("order confirmation mail sent")
	return nil
}
