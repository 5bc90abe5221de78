// Command main is the entry point for the Paperless Audit API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thintalltom/Paperless-Audit/internal/bootstrap"
	"github.com/Thintalltom/Paperless-Audit/internal/server"

	"github.com/gofiber/fiber/v2"
)

func main() {
	seedDemo := flag.Bool("seed", false, "Seed demo data on startup (development only)")
	flag.Parse()

	rt, err := bootstrap.InitRuntime(bootstrap.Options{SeedDemoData: *seedDemo})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(rt.Config, rt.DB, rt.Redis)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Paperless Audit API",
		// Attachments arrive base64-encoded inline; leave headroom above the
		// per-file limit.
		BodyLimit: 12 * 1024 * 1024,
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	if err := srv.StartHubWiring(hubCtx); err != nil {
		log.Printf("Notification hub wiring failed, continuing without live notifications: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cancelHub()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
		if err := rt.Shutdown(ctx); err != nil {
			log.Printf("Runtime shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", rt.Config.Port)
	log.Fatal(app.Listen(":" + rt.Config.Port))
}
