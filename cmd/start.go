package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rules-service/core/apperror"
	"rules-service/core/config"
	"rules-service/core/logger"
	"rules-service/core/middleware/rayid"
	"rules-service/core/scheduler"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "rules-service/docs/swagger"
)

// @title Rules Service API
// @version 1.0
// @description Distributes signed business rules, value sets, country lists and domestic rules.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the rules service",
	Long:  `Starts the HTTP server, initializes all enabled features and runs the download jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 3. Wire infrastructure and features
		a, err := buildApp(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("Failed to initialize service", zap.Error(err))
		}
		defer a.Close()

		// 4. Make sure every enabled type has a signed list
		if err := a.Features.InitAll(ctx); err != nil {
			logg.Fatal("Failed to initialize features", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			ErrorHandler:          apperror.Handler(logg),
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			if err != nil {
				l.Warn("Request error", zap.String("path", c.Path()), zap.Error(err))
			}
			l.Debug("Request",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Duration("took", time.Since(start)),
			)
			return err
		})

		if cfg.Server.Swagger {
			app.Get("/swagger/*", swagger.HandlerDefault)
		}
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 6. Load Features
		if err := a.Features.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start download jobs
		sched := scheduler.New(a.Locker, logg)
		sched.Add(a.Features.Jobs()...)
		sched.Start(ctx)

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		sched.Wait()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
