package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

// 決済SDKを開くコールバック。ゲートウェイ注文を渡すと、
// 決済完了後にpayment_id/order_id/signatureを返す。
type GatewayOpener func(ctx context.Context, order GatewayOrder) (PaymentCallback, error)

type PaymentCallback struct {
	PaymentID string
	OrderID   string
	Signature string
}

// Checkout はカートから注文への流れをまとめる。
// 代引きは1リクエスト、オンライン決済は
// 「ゲートウェイ注文作成 → SDK → サーバーで検証」の二段階。
type Checkout struct {
	api  *API
	cart *CartStore
}

func NewCheckout(api *API, cart *CartStore) *Checkout {
	return &Checkout{api: api, cart: cart}
}

func (c *Checkout) buildItems() ([]OrderItem, int64, error) {
	snap := c.cart.Snapshot()
	if len(snap.Items) == 0 {
		return nil, 0, ErrEmptyCart
	}

	items := make([]OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Category:  it.Category,
			Weight:    it.Weight,
			Purity:    it.Purity,
			Quantity:  it.Quantity,
		})
	}
	return items, snap.Total, nil
}

// 代引き。成功したらサーバーのカート（空になっている）を取り直す。
func (c *Checkout) PlaceCOD(ctx context.Context, customer Customer) (Order, error) {
	items, total, err := c.buildItems()
	if err != nil {
		return Order{}, err
	}

	order, err := c.api.PlaceCODOrder(ctx, customer, items, total, uuid.NewString())
	if err != nil {
		return Order{}, err
	}

	//注文は成立している。カートの取り直し失敗は注文結果を壊さない。
	_ = c.cart.Load(ctx)
	return order, nil
}

// オンライン決済。
// SDKの成功コールバックだけでは注文は確定しない。サーバーの
// /payment/verify が署名を検証して初めて注文が作られる。
func (c *Checkout) PayOnline(ctx context.Context, customer Customer, open GatewayOpener) (Order, error) {
	items, total, err := c.buildItems()
	if err != nil {
		return Order{}, err
	}

	gwOrder, err := c.api.CreateGatewayOrder(ctx, total)
	if err != nil {
		return Order{}, err
	}

	cb, err := open(ctx, gwOrder)
	if err != nil {
		return Order{}, err
	}

	order, err := c.api.VerifyPayment(ctx, cb.PaymentID, cb.OrderID, cb.Signature,
		customer, items, total, uuid.NewString())
	if err != nil {
		return Order{}, err
	}

	_ = c.cart.Load(ctx)
	return order, nil
}
