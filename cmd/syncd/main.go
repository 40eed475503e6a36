// Package main implements the entry point for syncd, the offline sync
// daemon of the knowledge-base client: it owns the durable cache and
// mutation queue, drains queued writes against the remote backend, and
// serves the sync status endpoints the UI polls.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	if err := app.Run(stop); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
