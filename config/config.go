package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dezh-tech/immortal/pkg/logger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/frecklefacelabs/golembase-images/internal/application/usecase"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/broker"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/database"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/entitystore"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/grpcserver"
	"github.com/frecklefacelabs/golembase-images/internal/infrastructure/minio"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Default struct {
	Address     string   `yaml:"http_address"`
	CORSOrigins []string `yaml:"cors_origins"`
	BodyLimit   string   `yaml:"body_limit"`
	RateLimit   float64  `yaml:"rate_limit"`
}

// Config represents the configs used by services on system.
type Config struct {
	Environment     string                  `yaml:"environment"`
	Default         Default                 `yaml:"default"`
	Object          usecase.ObjectConfig    `yaml:"object"`
	Thumbnail       usecase.ThumbnailConfig `yaml:"thumbnail"`
	Store           entitystore.Config      `yaml:"store"`
	MinIOClient     minio.ClientConfig      `yaml:"minio_client"`
	MinIOStore      minio.StoreConfig       `yaml:"minio_store"`
	DBConfig        database.Config         `yaml:"db_config"`
	BrokerConfig    broker.Config           `yaml:"redis_broker_config"`
	PublisherConfig broker.PublisherConfig  `yaml:"publisher_config"`
	GRPCServer      grpcserver.Config       `yaml:"grpc_server"`
	Logger          logger.Config           `yaml:"logger"`
}

type Error struct {
	reason string
}

func (e Error) Error() string {
	return fmt.Sprintf("config: %s", e.reason)
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}
	defer file.Close()

	config := &Config{}

	decoder := yaml.NewDecoder(file)

	if err := decoder.Decode(config); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	if config.Environment != "prod" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, Error{
				reason: err.Error(),
			}
		}
	}

	config.MinIOClient.AccessKey = os.Getenv("MINIO_ROOT_USER")
	config.MinIOClient.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	config.DBConfig.URI = os.Getenv("DATABASE_URI")
	config.BrokerConfig.URI = os.Getenv("BROKER_URI")

	if err = config.basicCheck(); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	return config, nil
}

// basicCheck validates the basic stuff in config.
func (c *Config) basicCheck() error {
	if c.Object.AppID == "" {
		return errors.New("object.app_id is required")
	}

	if c.Object.ChunkSize <= 0 {
		return fmt.Errorf("object.chunk_size_in_bytes must be positive, got %d", c.Object.ChunkSize)
	}

	if c.Object.BTL == 0 {
		return errors.New("object.btl must be positive")
	}

	if c.Thumbnail.Width <= 0 {
		return fmt.Errorf("thumbnail.width must be positive, got %d", c.Thumbnail.Width)
	}

	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}

	if c.Store.BlockTimeInMS <= 0 {
		return errors.New("store.block_time_in_ms must be positive")
	}

	if c.GRPCServer.ProbeInterval <= 0 {
		return errors.New("grpc_server.probe_interval_in_ms must be positive")
	}

	if c.GRPCServer.ProbeTimeout <= 0 {
		return errors.New("grpc_server.probe_timeout_in_ms must be positive")
	}

	return nil
}
