package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/frostcart/frostcart-api/internal/config"
	"github.com/frostcart/frostcart-api/internal/handler"
	"github.com/frostcart/frostcart-api/internal/middleware"
	"github.com/frostcart/frostcart-api/internal/repository"
	"github.com/frostcart/frostcart-api/internal/service"
	"github.com/frostcart/frostcart-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	couponRepo := repository.NewCouponRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	contentRepo := repository.NewContentRepository(dbPool)

	// Services
	policy := cfg.Pricing.Policy()
	mailer := &service.LogMailer{Log: log}
	authSvc := service.NewAuthService(userRepo, redisClient, mailer,
		cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Auth.OTPTTL, cfg.Auth.ResetTokenTTL)
	productSvc := service.NewProductService(productRepo, categoryRepo, redisClient)
	categorySvc := service.NewCategoryService(categoryRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo, policy)
	couponSvc := service.NewCouponService(couponRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, couponSvc, amqpCh, policy)
	contentSvc := service.NewContentService(contentRepo)
	paymentSvc := service.NewPaymentService(
		service.NewStripeIntentCreator(cfg.Stripe.SecretKey),
		cfg.Stripe.PublishableKey, cfg.Stripe.Currency)

	// Handlers
	uploads := handler.NewUploadStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	authH := handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, int(cfg.JWT.Expiration.Seconds()))
	productH := handler.NewProductHandler(productSvc, uploads)
	categoryH := handler.NewCategoryHandler(categorySvc)
	cartH := handler.NewCartHandler(cartSvc)
	couponH := handler.NewCouponHandler(couponSvc)
	orderH := handler.NewOrderHandler(orderSvc, uploads)
	contentH := handler.NewContentHandler(contentSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfillment := worker.NewFulfillmentWorker(amqpCh, orderRepo, productRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.Static(cfg.Uploads.URLPrefix, cfg.Uploads.Dir)

	authed := middleware.AuthMiddleware(cfg.JWT.Secret, cfg.JWT.CookieName, authSvc)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.RegisterInitiate)
		auth.POST("/register/verify", authH.RegisterVerify)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authed, authH.Logout)
		auth.GET("/me", authed, authH.Me)
		auth.POST("/forgot-password", authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)
		auth.POST("/apply-vendor", authed, authH.ApplyVendor)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.GetByID)
		products.GET("/:id/reviews", productH.ListReviews)
		products.PUT("/:id/reviews", authed, productH.CreateReview)

		vendorProducts := products.Group("", authed, middleware.VendorOrAdmin())
		vendorProducts.POST("", productH.Create)
		vendorProducts.PUT("/:id", productH.Update)
		vendorProducts.DELETE("/:id", productH.Delete)

		categories := v1.Group("/categories")
		categories.GET("", categoryH.List)

		cart := v1.Group("/cart", authed)
		cart.GET("", cartH.GetCart)
		cart.POST("/items", cartH.AddItem)
		cart.PUT("/items/:id", cartH.UpdateItem)
		cart.DELETE("/items/:id", cartH.DeleteItem)
		cart.DELETE("/products/:id", cartH.RemoveProduct)
		cart.DELETE("", cartH.Clear)

		v1.POST("/discounts/validate", authed, couponH.Validate)

		orders := v1.Group("/orders", authed)
		orders.POST("", orderH.CreateOrder)
		orders.GET("", orderH.ListOrders)
		orders.GET("/:id", orderH.GetOrder)
		orders.POST("/:id/cancel", orderH.CancelOrder)
		orders.POST("/:id/return", orderH.RequestReturn)
		orders.PUT("/:id/status", middleware.VendorOrAdmin(), orderH.UpdateStatus)

		payments := v1.Group("/payments", authed)
		payments.GET("/config", paymentH.Config)
		payments.POST("/process", paymentH.Process)

		content := v1.Group("/content")
		content.GET("/banners", contentH.Banners)
		content.GET("/items", contentH.ItemsByType)

		vendor := v1.Group("/vendor", authed, middleware.VendorOrAdmin())
		vendor.GET("/products", productH.ListMine)
		vendor.GET("/orders", orderH.ListVendorOrders)

		admin := v1.Group("/admin", authed, middleware.AdminOnly())
		admin.GET("/users", authH.ListUsers)
		admin.PUT("/users/:id/vendor-review", authH.ReviewVendor)
		admin.GET("/orders", orderH.ListAllOrders)
		admin.POST("/categories", categoryH.Create)
		admin.PUT("/categories/:id", categoryH.Update)
		admin.DELETE("/categories/:id", categoryH.Delete)
		admin.POST("/coupons", couponH.Create)
		admin.GET("/coupons", couponH.List)
		admin.PUT("/coupons/:id", couponH.Update)
		admin.DELETE("/coupons/:id", couponH.Delete)
		admin.GET("/content", contentH.ListAll)
		admin.POST("/content", contentH.Create)
		admin.PUT("/content/:id", contentH.Update)
		admin.DELETE("/content/:id", contentH.Delete)
	}

	if err := fulfillment.Start(ctx); err != nil {
		log.Error("start fulfillment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfillment.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
