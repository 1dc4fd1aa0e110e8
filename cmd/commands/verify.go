package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dezh-tech/immortal/pkg/logger"

	"github.com/frecklefacelabs/golembase-images/config"
	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/broker"
)

const defaultConsumer = "verifier-1"

// HandleVerify consumes commit events and checks each announced object
// against the store: verify <config> [consumer-name].
func HandleVerify(args []string) {
	if len(args) < 3 {
		ExitOnError(errors.New("at least 1 arguments expected\nuse help command for more information"))
	}

	cfg, err := config.Load(args[2])
	if err != nil {
		ExitOnError(err)
	}

	if cfg.Store.Driver != config.DriverMongo {
		ExitOnError(fmt.Errorf("verify needs a shared store, driver is %q", cfg.Store.Driver))
	}

	consumer := defaultConsumer
	if len(args) > 3 {
		consumer = args[3]
	}

	logger.InitGlobalLogger(&cfg.Logger)

	if err := verify(cfg, consumer); err != nil {
		ExitOnError(err)
	}
}

// verify runs until interrupted. Backends are closed before it returns.
func verify(cfg *config.Config, consumer string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.requireBroker(); err != nil {
		return err
	}

	logger.Info("verifying commit events", "stream", cfg.BrokerConfig.StreamName, "consumer", consumer)

	verifier := usecase.NewVerifier(usecase.NewReader(b.store, cfg.Object), broker.NewReceiver(b.broker))
	if err := verifier.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
