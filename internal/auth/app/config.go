package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envFiles are loaded in order before the environment is parsed. godotenv
// never overrides a variable that is already set, so earlier files win and
// the real environment wins over all of them.
var envFiles = []string{".secrets.env", ".prod.env", ".env"}

type Config struct {
	Issuer string `env:"AUTH_ISSUER" envDefault:"identity"`

	// Signing key, PEM content or a path. With neither set the embedded
	// development key is used.
	PrivateKey     string `env:"AUTH_PRIVATE_KEY"`
	PrivateKeyFile string `env:"AUTH_PRIVATE_KEY_FILE"`

	SessionTTL                time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`
	CodeTTL                   time.Duration `env:"AUTH_CODE_TTL" envDefault:"10m"`
	EnforceClientRegistration bool          `env:"AUTH_ENFORCE_CLIENT_REGISTRATION" envDefault:"true"`

	// Client seeds: a JSON array inline, a JSON file, or both.
	ClientsJSON string `env:"AUTH_CLIENTS"`
	ClientsFile string `env:"AUTH_CLIENTS_FILE"`

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	PepperFile   string `env:"AUTH_PEPPER_FILE" envDefault:"pepper"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	MetricsEnabled  bool    `env:"METRICS_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}

// LoadConfig reads the optional env files, parses the environment and
// validates the result.
func LoadConfig() (Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool { return c.Env == "prod" }

// HasSigningKey reports whether a key was configured explicitly.
func (c Config) HasSigningKey() bool {
	return c.PrivateKey != "" || c.PrivateKeyFile != ""
}

func (c Config) validate() error {
	var errs []error

	if c.Issuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.CodeTTL <= 0 {
		errs = append(errs, errors.New("AUTH_CODE_TTL must be positive"))
	}
	if c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_INTERVAL must be positive"))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}
	if !slogx.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if !slogx.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of json, text", c.LogFormat))
	}
	if c.PrivateKey != "" && c.PrivateKeyFile != "" {
		errs = append(errs, errors.New("set only one of AUTH_PRIVATE_KEY and AUTH_PRIVATE_KEY_FILE"))
	}
	if c.IsProd() && !c.HasSigningKey() {
		errs = append(errs, errors.New("the development signing key cannot be used with ENV=prod"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
