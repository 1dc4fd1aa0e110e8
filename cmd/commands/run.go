package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	golembaseimages "github.com/frecklefacelabs/golembase-images"
	"github.com/frecklefacelabs/golembase-images/config"
	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	domainbroker "github.com/frecklefacelabs/golembase-images/internal/domain/repository/broker"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/broker"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/grpcserver"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/imaging"
	"github.com/frecklefacelabs/golembase-images/internal/presentation/handler"
)

func HandleRun(args []string) {
	if len(args) < 3 {
		ExitOnError(errors.New("at least 1 arguments expected\nuse help command for more information"))
	}

	cfg, err := config.Load(args[2])
	if err != nil {
		ExitOnError(err)
	}

	logger.InitGlobalLogger(&cfg.Logger)

	logger.Info("running golembase-images", "version", golembaseimages.StringVersion(),
		"driver", cfg.Store.Driver, "app", cfg.Object.AppID)

	if err := serve(cfg); err != nil {
		ExitOnError(err)
	}
}

// serve runs the HTTP API and the health server until interrupted or until
// the HTTP server fails. Backends are closed before it returns.
func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	var publisher domainbroker.Publisher
	if b.broker != nil {
		publisher = broker.NewPublisher(b.broker, cfg.PublisherConfig)
	}

	transformer := imaging.NewPNGTransformer()
	writer := usecase.NewWriter(b.store, usecase.NewThumbnailBuilder(transformer, cfg.Thumbnail), cfg.Object)
	reader := usecase.NewReader(b.store, cfg.Object)

	e := newEcho(cfg)
	handler.Register(e, handler.Handlers{
		Image:  handler.NewImageHandler(reader),
		Index:  handler.NewIndexHandler(usecase.NewIndex(b.store, cfg.Object)),
		Upload: handler.NewUploadHandler(usecase.NewUploader(writer, publisher)),
		Resize: handler.NewResizeHandler(usecase.NewResizer(reader, transformer)),
	})

	if b.sweeper != nil {
		go b.sweeper.Run(ctx, sweepInterval(cfg))
	}

	healthServer := grpcserver.New(cfg.GRPCServer)
	for name, probe := range b.probes {
		healthServer.AddProbe(name, probe)
	}

	if err := healthServer.Start(); err != nil {
		return fmt.Errorf("starting health server: %w", err)
	}
	defer healthServer.Stop()
	go healthServer.Monitor(ctx)

	serveErr := make(chan error, 1)
	go func() {
		if err := e.Start(cfg.Default.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	return runErr
}

func newEcho(cfg *config.Config) *echo.Echo {
	origins := cfg.Default.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	bodyLimit := cfg.Default.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "50M"
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:  origins,
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderContentLength},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		ExposeHeaders: []string{"X-Reason", "Content-Disposition"},
		MaxAge:        86400,
	}))
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit(bodyLimit))
	if cfg.Default.RateLimit > 0 {
		e.Use(echoMiddleware.RateLimiter(echoMiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Default.RateLimit))))
	}

	return e
}
