package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/amit/captainhub/internal/api"
	"github.com/amit/captainhub/internal/config"
	"github.com/amit/captainhub/internal/export"
	"github.com/amit/captainhub/internal/feedback"
	"github.com/amit/captainhub/internal/observability"
	"github.com/amit/captainhub/internal/store"
	"github.com/amit/captainhub/internal/team"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfgPath := os.Getenv("CAPTAINHUB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: Could not load config: %v, using defaults", err)
		cfg = config.Default()
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	ctx := context.Background()

	// Audit trail
	observer, err := observability.NewObserver(observability.ObserverConfig{
		Enabled:   cfg.Observability.AuditEnabled,
		AuditPath: cfg.Observability.AuditPath,
		MaxRecent: cfg.Observability.MaxRecent,
	})
	if err != nil {
		log.Printf("Warning: Could not initialize audit file: %v", err)
	}
	defer observer.Close()
	log.Println("📊 Audit trail initialized")

	// Blob store
	st, err := store.NewByEngine(ctx, store.Options{
		Engine:        cfg.Storage.Engine,
		Path:          cfg.Storage.Path,
		DSN:           cfg.Storage.DSN,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		RedisPrefix:   cfg.Storage.RedisPrefix,
	})
	if err != nil {
		log.Printf("⚠️ Store %q unavailable: %v, falling back to memory", cfg.Storage.Engine, err)
		st = store.NewMemory()
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	engine := team.NewEngine(ctx, st,
		team.WithAuditor(observer),
		team.WithKey(cfg.Storage.Key),
	)
	if engine.Created() {
		s := engine.Summary()
		log.Printf("🏆 Team %s led by %s: %d members, %d points", s.TeamName, s.CaptainName, s.MemberCount, s.TotalPoints)
	} else {
		log.Println("🏛️ No team yet, waiting for a captain")
	}

	// Backups
	var archiver *export.Archiver
	sink, err := export.NewSink(ctx, cfg.Export)
	if err != nil {
		log.Printf("Warning: Backup archive disabled: %v", err)
	} else {
		archiver = export.NewArchiver(engine, sink, observer)
		if cfg.Export.BackupInterval > 0 {
			sched, err := export.StartScheduler(archiver, cfg.Export.BackupInterval)
			if err != nil {
				log.Printf("Warning: Backup schedule disabled: %v", err)
			} else {
				defer sched.Shutdown()
			}
		}
	}

	lang := feedback.ParseLocale(cfg.Feedback.Locale)
	server := api.NewServer(engine, observer, archiver, lang)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Olympic Captain Hub",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowedOrigins}))

	server.Routes(app)

	// Serve static files
	app.Static("/", cfg.Server.StaticDir)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down")
		_ = app.Shutdown()
	}()

	// Find available port
	port := findAvailablePort(cfg.Server.Port)

	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("🏛️ Olympic Captain Hub starting on http://localhost:%s", port)
	log.Printf("💾 Storage: %s", cfg.Storage.Engine)
	log.Printf("📜 Audit: http://localhost:%s/audit", port)
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if err := app.Listen(":" + port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

// findAvailablePort tries the configured port, then a range of ports
func findAvailablePort(preferred int) string {
	preferredPort := fmt.Sprintf("%d", preferred)
	if preferred <= 0 {
		preferredPort = "8080"
	}

	if isPortAvailable(preferredPort) {
		return preferredPort
	}

	log.Printf("Port %s is in use, finding available port...", preferredPort)

	for p := 8081; p <= 8099; p++ {
		port := fmt.Sprintf("%d", p)
		if isPortAvailable(port) {
			return port
		}
	}

	return "0"
}

func isPortAvailable(port string) bool {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
