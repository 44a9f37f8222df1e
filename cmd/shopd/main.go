package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/Sampel65/youshop-go/internal/cart"
	"github.com/Sampel65/youshop-go/internal/catalog"
	"github.com/Sampel65/youshop-go/internal/config"
	"github.com/Sampel65/youshop-go/internal/db"
	"github.com/Sampel65/youshop-go/internal/events"
	"github.com/Sampel65/youshop-go/internal/httpapi"
	"github.com/Sampel65/youshop-go/internal/notify"
	"github.com/Sampel65/youshop-go/internal/order"
	"github.com/Sampel65/youshop-go/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "[shopd] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	ctx := context.Background()

	st, closeStore := newStore(cfg, logger)
	defer closeStore()

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.RabbitURL != "" {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("connect to RabbitMQ: %v", err)
		}
		defer conn.Close()

		amqpNotifier, err := notify.NewAMQPNotifier(conn)
		if err != nil {
			logger.Fatalf("create notifier: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	bus := events.NewBus()

	inbox := notify.NewInbox(ctx, st, notifier, logger)
	bus.Subscribe(inbox.HandleEvent)

	ledger := order.NewLedger(ctx, st, bus, logger)
	shoppingCart := cart.New()

	client, err := catalog.NewClient(cfg.CatalogURL, &http.Client{Timeout: cfg.CatalogTimeout})
	if err != nil {
		logger.Fatalf("create catalog client: %v", err)
	}
	cache := catalog.NewCache(ctx, st, logger)
	catalogSvc := catalog.NewService(client, cache, logger)

	h := httpapi.NewHandler(catalogSvc, shoppingCart, ledger, inbox, cfg.ShippingCost)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(h),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Printf("shopd listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newStore(cfg config.Config, logger *log.Logger) (store.Store, func()) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.DatabaseDSN == "" {
			logger.Fatal("SHOP_DB_DSN not set")
		}
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("migrations: %v", err)
		}
		sqlDB := db.MustOpen(cfg.DatabaseDSN)
		return store.NewPostgres(sqlDB), func() { _ = sqlDB.Close() }

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedis(client), func() { _ = client.Close() }

	default:
		return store.NewMemory(), func() {}
	}
}
