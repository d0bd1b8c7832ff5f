package app

import (
	server "github.com/Andrey15243/Pin/internal/adapters/primary/http"
	alerterAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/kafka"
	"github.com/Andrey15243/Pin/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/Andrey15243/Pin/internal/adapters/secondary/storage/redis"
	"github.com/Andrey15243/Pin/internal/adapters/secondary/telegram"
	"github.com/Andrey15243/Pin/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres *pg.Config             `envconfig:"POSTGRES"`
	Log      *logger.Config         `envconfig:"LOG"`
	Server   *server.Config         `envconfig:"APISERVER"`
	Telegram *telegram.Config       `envconfig:"TELEGRAM"`
	Redis    *redisAdapter.Config   `envconfig:"REDIS"`
	Kafka    *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter  *alerterAdapter.Config `envconfig:"ALERTER"`
	Payments *PaymentsConfig        `envconfig:"PAYMENTS"`
}

// PaymentsConfig цены продуктов в звёздах
type PaymentsConfig struct {
	BoostPrice  int64 `envconfig:"BOOST_PRICE" default:"10000"`
	DonatePrice int64 `envconfig:"DONATE_PRICE" default:"250"`
	EnergyPrice int64 `envconfig:"ENERGY_PRICE" default:"100"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
