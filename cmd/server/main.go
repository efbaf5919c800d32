// Command server runs the content backend API: submission, review, and
// consumer reads over REST, plus the live notification stream.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/tutorhive/tutorhive-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
