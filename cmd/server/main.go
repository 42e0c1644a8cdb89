package main

import (
	"context"
	"net/http"

	"takeaway-be/internal/config"
	"takeaway-be/internal/db"
	"takeaway-be/internal/httpapi"
	"takeaway-be/internal/logger"
	"takeaway-be/internal/menu"
	"takeaway-be/internal/metrics"
	"takeaway-be/internal/middleware"
	"takeaway-be/internal/notify"
	"takeaway-be/internal/order"
	"takeaway-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	reg := metrics.NewRegistry()

	bus := notify.NewBus(reg)
	defer bus.Close()

	hub := notify.NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)

	menuRepo := menu.NewRepository(database)
	menuSvc := menu.NewService(menuRepo, bus, reg)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, menuRepo, bus, reg)

	router := httpapi.NewRouter(cfg.JWTSecret, httpapi.Services{
		Users:  userSvc,
		Menu:   menuSvc,
		Orders: orderSvc,
	}, hub, reg, middleware.NewLimiter())

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
