package main

import (
	"log"

	"repogrant/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load and validate config (fail fast on a broken asset/repo mapping).
// 2) Build app wiring (ports + adapters + reconciliation service).
// 3) Start HTTP server.
func main() {
	log.Println("repogrant api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(); err != nil {
		log.Fatalf("repogrant api stopped with error: %v", err)
	}
}
