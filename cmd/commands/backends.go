package commands

import (
	"context"
	"errors"
	"time"

	"github.com/dezh-tech/immortal/pkg/logger"

	"github.com/frecklefacelabs/golembase-images/config"
	entityrepo "github.com/frecklefacelabs/golembase-images/internal/domain/repository/entitystore"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/broker"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/database"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/entitystore"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/grpcserver"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/memstore"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/minio"
)

// backends holds the connections opened for one process.
type backends struct {
	store   entityrepo.Client
	sweeper *entitystore.Sweeper
	broker  *broker.Client
	probes  map[string]grpcserver.Probe
	closers []func() error
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Error("failed to close backend", "err", err)
		}
	}
}

func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{probes: make(map[string]grpcserver.Probe)}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Info("using in-memory entity store")
		b.store = memstore.New(cfg.Store.BlockTime())

	case config.DriverMongo:
		if err := b.openMongo(ctx, cfg); err != nil {
			b.close()

			return nil, err
		}
	}

	if cfg.BrokerConfig.URI != "" {
		client, err := broker.NewClient(ctx, cfg.BrokerConfig)
		if err != nil {
			b.close()

			return nil, err
		}

		b.broker = client
		b.probes["redis"] = client.Ping
		b.closers = append(b.closers, client.Close)
	}

	return b, nil
}

func (b *backends) openMongo(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg.DBConfig)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, db.Stop)
	b.probes["mongo"] = db.Ping

	minIOClient, err := minio.New(&cfg.MinIOClient)
	if err != nil {
		return err
	}
	if err := minIOClient.EnsureBucket(ctx, &cfg.MinIOStore); err != nil {
		return err
	}
	b.probes["minio"] = func(ctx context.Context) error {
		return minIOClient.Ping(ctx, cfg.MinIOStore.Bucket)
	}

	minIORemover := minio.NewRemover(minIOClient.MinioClient, &cfg.MinIOStore)
	dbRemover := database.NewRecordRemover(db)

	b.store = entitystore.New(
		entitystore.Payloads{
			Uploader:   minio.NewUploader(minIOClient.MinioClient, &cfg.MinIOStore),
			Downloader: minio.NewDownloader(minIOClient.MinioClient, &cfg.MinIOStore),
			Remover:    minIORemover,
		},
		entitystore.Records{
			Writer:    database.NewRecordWriter(db),
			Retriever: database.NewRecordRetriever(db),
			Querier:   database.NewRecordQuerier(db),
		},
		cfg.Store.BlockTime(),
	)
	b.sweeper = entitystore.NewSweeper(dbRemover, minIORemover, cfg.Store.SweepBatch)

	return nil
}

func (b *backends) requireBroker() error {
	if b.broker == nil {
		return errors.New("BROKER_URI is not set")
	}

	return nil
}

func sweepInterval(cfg *config.Config) time.Duration {
	if cfg.Store.SweepIntervalMS <= 0 {
		return time.Minute
	}

	return time.Duration(cfg.Store.SweepIntervalMS) * time.Millisecond
}
