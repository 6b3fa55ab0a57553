package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodHub/config"
	"foodHub/handlers"
	"foodHub/repository"
	"foodHub/services"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var db *sql.DB
var rdb *redis.Client

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cartR := initCartStorage(ctx, cfg)
	defer closeStorage()

	api := repository.NewApiClient(cfg.BackendURL, cfg.BackendTimeout)
	pR, _ := repository.NewProductRepository(api)
	oR, _ := repository.NewOrderRepository(api)

	catalog := services.NewCatalogService(pR)
	if err := catalog.Load(ctx); err != nil {
		log.Printf("starting with an empty catalog: %v", err)
	}

	sessions := services.NewSessionService(cartR, oR, cfg.SessionIdleTTL)
	go sessions.RunEvictor(ctx, cfg.SessionIdleTTL/2)

	ha := handlers.NewHandler(handlers.HandlerParams{
		CatService:  catalog,
		SessService: sessions,
	})
	router := handlers.NewRouter(ha)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           otelhttp.NewHandler(router, "foodhub"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cncl := context.WithTimeout(context.Background(), 5*time.Second)
		defer cncl()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("starting server on %s...", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Printf("server stopped")
}

func initCartStorage(ctx context.Context, cfg config.Config) repository.CartRepository {
	var err error
	var cartR repository.CartRepository

	switch cfg.CartStorage {
	case config.StorageMemory:
		log.Printf("cart storage: memory")
		return repository.NewCartMemoryRepository()
	case config.StorageRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: "",
			DB:       0,
		})
		pingCtx, cncl := context.WithTimeout(ctx, 5*time.Second)
		defer cncl()
		if status := rdb.Ping(pingCtx); status.Err() != nil {
			panic("redis is not working: " + status.Err().Error())
		}
		cartR, err = repository.NewCartRedisRepository(rdb, context.Background(), cfg.CartTTL)
		if err != nil {
			panic(err)
		}
		log.Printf("redis connected")
	case config.StoragePostgres:
		db, err = sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			panic(err)
		}
		cartR, err = repository.NewCartSqlRepository(db, "postgres")
		if err != nil {
			panic(err)
		}
		log.Printf("db connected")
	default:
		db, err = sql.Open("sqlite3", cfg.Sqlite.Path)
		if err != nil {
			panic(err)
		}
		db.SetMaxOpenConns(1)
		cartR, err = repository.NewCartSqlRepository(db, "sqlite3")
		if err != nil {
			panic(err)
		}
		log.Printf("sqlite cart storage at %s", cfg.Sqlite.Path)
	}
	return cartR
}

func closeStorage() {
	if db != nil {
		db.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
}
