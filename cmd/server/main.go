package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-api/config"
	"ecommerce-api/internal/api"
	"ecommerce-api/internal/broker"
	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/redisclient"
	"ecommerce-api/internal/service"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/util"
	"ecommerce-api/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting ecommerce API")

	tp, err := util.InitTracer("ecommerce-api", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	cat, err := catalog.NewCatalog(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cat.Close(context.Background())
	log.Println("MongoDB connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	productService := service.NewProductService(cat, redisClient)
	cartService := service.NewCartService(db, productService, redisClient)
	orderService := service.NewOrderService(db, productService, eventPublisher)
	authService := service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(db)
	categoryService := service.NewCategoryService(cat)
	bannerService := service.NewBannerService(cat)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	cartConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	cartWorker := worker.NewCartWorker(cartConsumer, cartService)
	go func() {
		if err := cartWorker.Start(workerCtx); err != nil {
			log.Printf("Cart worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(
		productService,
		cartService,
		orderService,
		authService,
		userService,
		categoryService,
		bannerService,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	cartWorker.Stop()

	log.Println("Server exited")
}
