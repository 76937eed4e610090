package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	// Balance granted to new accounts when the register request does not
	// carry one.
	InitialBalance int64 `env:"INITIAL_BALANCE" envDefault:"1000"`

	// Upper bound on a single loan grant, inclusive.
	LoanCap int64 `env:"LOAN_CAP" envDefault:"10000"`

	// Every Nth inbound request is rejected by the admission gate; <= 0
	// disables rejection.
	AdmissionEveryN int64 `env:"ADMISSION_EVERY_N" envDefault:"10"`

	// Artificial latency injected before a transfer commits. Zero skips
	// the delay.
	TransferDelayMS int `env:"TRANSFER_DELAY_MS" envDefault:"0"`

	// Probability in [0, 1] that a balance read fails with a simulated
	// internal fault. Zero keeps reads deterministic.
	BalanceFaultRate float64 `env:"BALANCE_FAULT_RATE" envDefault:"0"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
