package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/loanbook/pkg/logger"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every tunable of the tool. Only this struct must be used to
// read configuration; no direct access to the environment elsewhere.
type Config struct {
	AppEnv string `env:"APP_ENV,default=dev"`
	LogEnv string `env:"LOG_ENV,default=dev"`

	// LedgerDir is where ledgers are created and discovered.
	LedgerDir         string `env:"LEDGER_DIR,default=."`
	LedgerFilePattern string `env:"LEDGER_FILE_PATTERN,default=loans_*.db"`
	LedgerCurrency    string `env:"LEDGER_CURRENCY,default=EUR"`
	// LedgerMergeKey selects how duplicates are recognised on merge: "tuple"
	// compares (date, name, amount), "ref" prefers the row's correlation token.
	LedgerMergeKey string `env:"LEDGER_MERGE_KEY,default=tuple"`
	// LedgerTruncatePartial drops the fractional part of partial settlements,
	// as the first version of the tool did.
	LedgerTruncatePartial bool   `env:"LEDGER_TRUNCATE_PARTIAL,default=false"`
	LedgerDBDebug         bool   `env:"LEDGER_DB_DEBUG,default=false"`
	LedgerMetricsFile     string `env:"LEDGER_METRICS_FILE"`

	PromNamespace string `env:"PROM_NAMESPACE,default=loanbook"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=127.0.0.1:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`
}

func (c *Config) Validate() error {
	switch c.LedgerMergeKey {
	case "tuple", "ref":
	default:
		return errors.Errorf("LEDGER_MERGE_KEY must be tuple or ref, got %q", c.LedgerMergeKey)
	}
	if c.LedgerFilePattern == "" {
		return errors.New("LEDGER_FILE_PATTERN must not be empty")
	}
	if c.HttpRequestTimeout <= 0 {
		return errors.New("HTTP_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// Load reads the optional .env file at path, then the environment.
// Variables already set in the environment win over the file.
func Load(path string) error {
	c := &Config{}
	if path != "" {
		logger.Debug("loading env file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to configuration")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	config = c
	return nil
}

// Set installs c as the active configuration.
func Set(c *Config) {
	config = c
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
