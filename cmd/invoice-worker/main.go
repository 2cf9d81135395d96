package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/evermarket/internal/config"
	"github.com/fjod/evermarket/internal/notify"
)

func main() {
	cfg := config.Load()

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	consumer := notify.NewInvoiceConsumer(mailer, cfg.KafkaBrokers...)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down invoice worker...")
		cancel()
	}()

	log.Println("invoice worker started")
	consumer.Run(ctx)
}
