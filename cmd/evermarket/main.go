package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/fjod/evermarket/internal/cart"
	"github.com/fjod/evermarket/internal/catalog"
	"github.com/fjod/evermarket/internal/checkout"
	"github.com/fjod/evermarket/internal/config"
	"github.com/fjod/evermarket/internal/notify"
	"github.com/fjod/evermarket/internal/orders"
	"github.com/fjod/evermarket/internal/postgres"
	"github.com/fjod/evermarket/internal/web"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db, err := postgres.Connect(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("Connected to postgres!")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	invoices := notify.NewInvoicePublisher(cfg.KafkaBrokers)
	defer invoices.Close()

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	social := notify.NewWebhookPoster(cfg.SocialWebhookURL)

	authz := auth.NewRoleAuthorizer()
	users := auth.NewPostgresRepository(db)
	sessions := auth.NewSessionManager(redisClient)
	resets := auth.NewResetService(users, users)

	orderRepo := orders.NewPostgresRepository(db)
	catalogRepo := catalog.NewPostgresRepository(db)
	productCache := catalog.NewProductCache(redisClient)
	catalogService := catalog.NewService(catalogRepo, productCache, authz, social, orderRepo)

	cartSessions := cart.NewRedisSessionStore(redisClient)
	cartService := cart.NewService(cartSessions, catalogService, authz)

	committer := checkout.NewPostgresCommitter(db)
	checkoutService := checkout.NewService(cartSessions, committer, invoices, authz)

	router := web.NewRouter(web.RouterDeps{
		Auth:           web.NewAuthHandler(users, sessions, resets, notify.NewPasswordResetSender(mailer), cfg.BaseURL),
		Stores:         web.NewStoreHandler(catalogService),
		Products:       web.NewProductHandler(catalogService),
		Cart:           web.NewCartHandler(cartService, checkoutService),
		Sessions:       sessions,
		Users:          users,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("evermarket starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
