package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/toaiking/ECOGO-sub002/internal/config"
	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/postgres"
	"github.com/toaiking/ECOGO-sub002/internal/reconcile"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producer: order.payment.verified
	pVerified := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderVerified, 1024)
	pVerified.Start(ctx)

	// Service
	svc := &reconcile.Service{
		Repo:        &orders.ReconcileRepo{DB: db},
		Redis:       rdb,
		Producer:    pVerified,
		Methods:     cfg.ReconcileMethods,
		ServiceName: cfg.ServiceName + "-reconciler",
	}

	// Consumer
	group := getenv("RECONCILER_GROUP", "reconciler-svc")
	workers := mustAtoi(os.Getenv("RECONCILER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicStatementReceived, workers)

	go func() {
		log.Printf("reconciler consumer started: group=%s topic=%s workers=%d", group, orders.TopicStatementReceived, workers)
		if err := cons.Start(ctx, svc.HandleStatement); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	pVerified.Close()
	pVerified.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
