package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/adapter/auth"
	"github.com/pharmamart/backend/internal/adapter/config"
	"github.com/pharmamart/backend/internal/adapter/handler/http"
	"github.com/pharmamart/backend/internal/adapter/logger"
	"github.com/pharmamart/backend/internal/adapter/storage"
	"github.com/pharmamart/backend/internal/adapter/storage/repository"
	"github.com/pharmamart/backend/internal/core/service"
	"github.com/pharmamart/backend/internal/jobs"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}
	tokenService, err := auth.New(conf.Auth)
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	userService, err := service.NewUserService(repo, tokenService, log.Named("UserService"))
	if err != nil {
		log.Error("user service creating error", zap.Error(err))
		return
	}
	categoryService, err := service.NewCategoryService(repo, log.Named("CategoryService"))
	if err != nil {
		log.Error("category service creating error", zap.Error(err))
		return
	}
	medicineService, err := service.NewMedicineService(repo, log.Named("MedicineService"))
	if err != nil {
		log.Error("medicine service creating error", zap.Error(err))
		return
	}
	orderService, err := service.NewOrderService(repo, repo, log.Named("OrderService"))
	if err != nil {
		log.Error("order service creating error", zap.Error(err))
		return
	}
	reviewService, err := service.NewReviewService(repo, log.Named("ReviewService"))
	if err != nil {
		log.Error("review service creating error", zap.Error(err))
		return
	}

	if !conf.Jobs.DisableReconcile {
		ttl, err := time.ParseDuration(conf.Jobs.ReservationTTL)
		if err != nil {
			log.Error("reservation ttl parse error", zap.Error(err))
			return
		}
		reconcile := jobs.NewReconcileJob(repo, conf.Jobs.ReconcileEvery, ttl, log.Named("ReconcileJob"))
		if err := reconcile.Start(); err != nil {
			log.Error("reconcile job start error", zap.Error(err))
			return
		}
		defer reconcile.Stop()
	}

	userHandler, err := http.NewUserHandler(userService)
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	categoryHandler, err := http.NewCategoryHandler(categoryService)
	if err != nil {
		log.Error("category handler creating error", zap.Error(err))
		return
	}
	medicineHandler, err := http.NewMedicineHandler(medicineService)
	if err != nil {
		log.Error("medicine handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(orderService)
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	reviewHandler, err := http.NewReviewHandler(reviewService)
	if err != nil {
		log.Error("review handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(tokenService,
		userHandler, categoryHandler, medicineHandler, orderHandler, reviewHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
