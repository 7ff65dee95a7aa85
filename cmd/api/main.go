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

	"github.com/toaiking/ECOGO-sub002/internal/config"
	"github.com/toaiking/ECOGO-sub002/internal/extract"
	"github.com/toaiking/ECOGO-sub002/internal/httpx"
	"github.com/toaiking/ECOGO-sub002/internal/importer"
	kafkax "github.com/toaiking/ECOGO-sub002/internal/kafka"
	"github.com/toaiking/ECOGO-sub002/internal/orders"
	"github.com/toaiking/ECOGO-sub002/internal/postgres"
	"github.com/toaiking/ECOGO-sub002/internal/reconcile"
	"github.com/toaiking/ECOGO-sub002/internal/redisx"
	"github.com/toaiking/ECOGO-sub002/internal/vietqr"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, mot producer moi topic
	pImported := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderImported, 1024)
	pImported.Start(ctx)
	pStatement := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStatementReceived, 1024)
	pStatement.Start(ctx)
	pVerified := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderVerified, 1024)
	pVerified.Start(ctx)

	// Repos & collaborators
	repo := &orders.Repo{DB: db}
	banks := vietqr.NewBankDirectory()
	if _, ok := banks.BIN(cfg.BankCode); !ok {
		log.Printf("BANK_CODE %q khong co trong danh ba, QR se dung BIN fallback %s", cfg.BankCode, vietqr.DefaultBIN)
	}

	recSvc := &reconcile.Service{
		Repo:        &orders.ReconcileRepo{DB: db},
		Redis:       rdb,
		Producer:    pVerified,
		Methods:     cfg.ReconcileMethods,
		ServiceName: cfg.ServiceName,
	}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{
		Repo:        repo,
		Redis:       rdb,
		Banks:       banks,
		BankCode:    cfg.BankCode,
		BankAccount: cfg.BankAccount,
	}).Register(router)
	(&httpx.ImportsHandler{
		Importer: &importer.Importer{Store: repo},
		Extract:  extract.NewClient(cfg.ExtractBaseURL),
		Catalog:  repo,
		Producer: pImported,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}).Register(router)
	(&httpx.ReconcileHandler{
		Service:    recSvc,
		Statements: pStatement,
		Producer:   cfg.ServiceName,
	}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pImported.Close() // dong inbox -> flush & close writer
	pStatement.Close()
	pVerified.Close()
	cancel() // stop producer loops
	pImported.WaitClosed()
	pStatement.WaitClosed()
	pVerified.WaitClosed()
}
