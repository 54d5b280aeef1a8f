package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	infraauth "storefront/internal/infra/auth"
	"storefront/internal/infra/db"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}

	// repository
	productRepo := infrarepo.NewProductGormRepository(gormDB)
	inventoryRepo := infrarepo.NewInventoryGormRepository(gormDB)
	cartRepo := infrarepo.NewCartGormRepository(gormDB)
	cartItemRepo := infrarepo.NewCartItemGormRepository(gormDB)
	orderRepo := infrarepo.NewOrderGormRepository(gormDB)
	userRepo := infrarepo.NewUserGormRepository(gormDB)
	auditRepo := infrarepo.NewAuditLogGormRepository(gormDB)
	txManager := infrarepo.NewTxManagerGorm(gormDB)

	// usecase
	clock := infraauth.RealClock{}
	issuer := infraauth.NewJWTIssuer(cfg.JWTSecret, 7*24*time.Hour)
	registerUC := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(0), clock)
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, auditRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartItemRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, userRepo, productRepo, orderRepo, auditRepo, cfg.OrderStatusPolicy)

	srv := server.New(cfg, log,
		handler.NewAuthHandler(registerUC, loginUC),
		handler.NewProductHandler(productUC),
		handler.NewCartHandler(cartUC, cfg),
		handler.NewOrderHandler(orderUC, cfg),
		handler.NewAdminProductHandler(productUC, cfg),
		handler.NewAdminOrderHandler(adminOrderUC, cfg),
	)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.GoEnv))
		if err := srv.Start(); err != nil {
			log.Warn("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
