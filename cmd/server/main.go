// Package main implements the entry point for the taskmill server, the
// task scheduling and notification engine. It loads configuration, wires
// the stores, services and delivery channels, runs database migrations and
// starts the HTTP server with the background reminder sweeper.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(ctx); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
