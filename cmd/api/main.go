package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/handler"
	"app/internal/infra/db"
	infrarepo "app/internal/infra/repository"
	"app/internal/messaging"
	"app/internal/notify"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("db connect failed")
	}

	if err := conn.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.WishlistItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.StatusHistory{},
		&model.GoldRate{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		logrus.WithError(err).Fatal("migrate failed")
	}

	//repository
	cartRepo := infrarepo.NewCartGormRepository(conn)
	wishlistRepo := infrarepo.NewWishlistGormRepository(conn)
	productRepo := infrarepo.NewProductGormRepository(conn)
	goldRateRepo := infrarepo.NewGoldRateGormRepository(conn)
	userRepo := infrarepo.NewUserGormRepository(conn)
	rtRepo := infrarepo.NewRefreshTokenGormRepository(conn)
	txManager := infrarepo.NewTxManagerGorm(conn)

	//外部サービス。未設定ならNoop/Mockに落とす。
	var gw gateway.Gateway
	if cfg.GatewayBaseURL != "" {
		gw = gateway.NewPhonePeGateway(cfg.GatewayBaseURL, cfg.GatewayMerchantID, cfg.GatewaySecret)
	} else {
		logrus.Warn("GATEWAY_BASE_URL not set, using mock gateway")
		gw = gateway.NewMockGateway(cfg.GatewaySecret, gateway.StateCompleted)
	}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, "storefront.orders")
		if err != nil {
			logrus.WithError(err).Warn("rabbitmq connect failed, events disabled")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	var mailer notify.Mailer = notify.NoopMailer{}
	if cfg.SendgridAPIKey != "" && cfg.EmailFrom != "" {
		mailer = notify.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFrom, "Shanthi Online Gold")
	}

	//usecase
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo)
	goldRateUC := usecase.NewGoldRateUsecase(txManager, goldRateRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, gw, mailer, publisher)
	paymentUC := usecase.NewPaymentUsecase(txManager, gw, publisher)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, publisher)

	//handler
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(cfg, authUC),
		Product:      handler.NewProductHandler(productUC, goldRateUC),
		Cart:         handler.NewCartHandler(cartUC),
		Wishlist:     handler.NewWishlistHandler(wishlistUC),
		Order:        handler.NewOrderHandler(orderUC, checkoutUC),
		Payment:      handler.NewPaymentHandler(paymentUC, checkoutUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminRate:    handler.NewAdminGoldRateHandler(goldRateUC),
	}

	e := server.New(cfg, userRepo, handlers)
	if err := server.Start(e, cfg); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
