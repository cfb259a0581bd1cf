// Command scheme-session runs the long-lived evaluation actor: one
// persistent top-level environment behind a Unix domain socket,
// grounded on the teacher's cmd/logos/main.go driver.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"scheme/internal/session"
	"scheme/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	sockPath := envOr("SCHEME_SOCK", "/tmp/scheme-session.sock")

	sess, err := session.New(sockPath, os.Stdout)
	if err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	if dbPath := os.Getenv("SCHEME_STORE_DB"); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			log.Fatalf("failed to open definition store: %v", err)
		}
		sess.SetStore(st)
		if err := sess.Replay(); err != nil {
			log.Fatalf("failed to replay definitions from %s: %v", dbPath, err)
		}
		log.Printf("definition store: %s", dbPath)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("shutting down...")
		sess.Shutdown()
		os.Exit(0)
	}()

	log.Printf("scheme-session listening on %s", sockPath)
	sess.Run()
}
