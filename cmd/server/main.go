package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwi.com/windtone-assistant/internal/api"
	"gwi.com/windtone-assistant/internal/app"
	"gwi.com/windtone-assistant/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.AppConfig.Debug() {
		log.Println("Service starting in DEBUG mode")
	}

	a, err := app.New(context.Background(), config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	// Waits for in-flight submissions before closing storage.
	defer a.Close()

	apiHandler := api.NewAPIHandler(a.Chat, a.Speech, config.AppConfig.MaxFileSizeBytes)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 60 * time.Second, // uploads of several files
		// Synchronous submissions wait for transcription and completion.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
