package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"skycourier/internal/skycourier"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	s := skycourier.New()
	if err := s.Start(ctx); err != nil {
		s.Logger.Fatalw("server error", "err", err)
	}
}

// signalContext cancels on SIGINT/SIGTERM for a clean shutdown.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx, cancel
}
