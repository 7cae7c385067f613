package main

import (
	"context"
	"errors"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fadilmartias/interview-grader/internal/domain/fiber/handler"
	"github.com/fadilmartias/interview-grader/internal/middleware"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "listen address, e.g. :8080")
	_ = viper.BindPFlag("app_port", serveCmd.Flags().Lookup("port"))
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	a, err := newApplication(ctx, log, true)
	if err != nil {
		log.Error("starting the application", zap.Error(err))
		return err
	}
	defer a.Close()

	server := newServer(a)

	go monitorGoroutines(ctx, log)

	go func() {
		<-ctx.Done()
		log.Info("shutting down the server")
		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}
	}()

	log.Info("server running", zap.String("port", a.cfg.App.Port))
	return server.Listen(a.cfg.App.Port)
}

func newServer(a *application) *fiber.App {
	appConfig := a.cfg.App

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.Environment(appConfig.Env))

	app.Get("/metrics", adaptor.HTTPHandler(a.metrics.Handler()))

	api := app.Group("/", middleware.RateLimiter(appConfig.RateLimit, appConfig.RateWindow))
	handler.NewInterviewHandler(a.interviews, a.transcripts).RegisterRoutes(api)
	handler.NewReportHandler(a.reports).RegisterRoutes(api)
	handler.NewQuestionHandler(a.questions).RegisterRoutes(api)

	return app
}

func monitorGoroutines(ctx context.Context, log *zap.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("active goroutines", zap.Int("count", runtime.NumGoroutine()))
		}
	}
}
