package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/config"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/httpserver"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/kv"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/llm"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/session"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/store"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/transcript"
	"github.com/Biswayan-Mehra/Dhenu-ChatBot-App/internal/tts"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("create data directory: %v", err)
	}
	kvs, err := kv.Open(filepath.Join(cfg.DataDir, "chat.db"))
	if err != nil {
		log.Fatalf("open chat database: %v", err)
	}
	defer kvs.Close()

	audioDir := filepath.Join(cfg.DataDir, "audio")
	ttsDir := filepath.Join(cfg.DataDir, "tts-audio")

	sess := session.New(
		transcript.NewClient(cfg.SarvamKey, cfg.SarvamBaseURL),
		llm.NewClient(cfg.DhenuKey, cfg.DhenuBaseURL, cfg.DhenuModelID),
		tts.NewClient(cfg.SarvamKey, cfg.SarvamBaseURL, ttsDir),
		store.New(kvs),
	)

	srv := httpserver.New(sess, audioDir, ttsDir, nil)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
