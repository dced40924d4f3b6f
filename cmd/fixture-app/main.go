// Fixture application server.
//
// Serves minimal versions of the pages the verification flows exercise
// (dashboard, agents, transparencia, contact, leads) together with real
// /api/submissions and /api/leads handlers. Use it to try flowcheck
// locally:
//
//	go run ./cmd/fixture-app -addr :5173
//	flowcheck run --base-url http://localhost:5173
//
// An explicit base URL applies to every flow, including transparency,
// which otherwise defaults to the preview port 4173.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thesyncim/flowcheck/cmd/fixture-app/server"
)

func main() {
	addr := flag.String("addr", ":5173", "listen address")
	seed := flag.Bool("seed-agents", false, "render the agents list with an existing agent")
	empty := flag.Bool("empty-state", false, "with -seed-agents, also render the empty-state call to action")
	flag.Parse()

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	cfg.SeedAgents = *seed
	cfg.EmptyState = *empty

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	bound, err := srv.Start()
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Listening on %s", bound)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
