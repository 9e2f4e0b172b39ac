package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the ingest API process.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App      AppConfig
	Backends BackendConfig
	Pipeline PipelineConfig
	DB       DBConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// BackendConfig points at the dashboard backend services the pipeline
// consumes. All of them are plain REST endpoints.
type BackendConfig struct {
	// ClassifierAPIURL is the line-type/fraud classifier lookup endpoint.
	ClassifierAPIURL string
	// CDRAPIURL is the CDR write endpoint.
	CDRAPIURL string
	// CampaignAPIURL is the campaign read endpoint.
	CampaignAPIURL string
	// NumbersAPIURL is the number-inventory endpoint.
	NumbersAPIURL string

	// ClientTimeout bounds each individual backend call.
	ClientTimeout time.Duration
}

// PipelineConfig carries the routing policy knobs.
//
// These were module-level constants in the dashboard; they are explicit
// configuration here so tests can vary them without touching global state.
type PipelineConfig struct {
	// FraudScoreThreshold rejects VoIP calls whose score is strictly
	// greater. Range 0-100.
	FraudScoreThreshold int

	// MaxRetries and RetryDelay control the campaign directory lookup.
	// The delay is fixed between attempts, not exponential.
	MaxRetries int
	RetryDelay time.Duration
}

// DBConfig is the optional audit store. Audit is disabled when Host is empty.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig is the optional ingest idempotency guard. Disabled when Host
// is empty.
type RedisConfig struct {
	Host string
	Port int
}

const (
	DefaultFraudScoreThreshold = 75
	DefaultMaxRetries          = 3
	DefaultRetryDelay          = 1000 * time.Millisecond
	DefaultClientTimeout       = 5 * time.Second
)

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.Backends.ClassifierAPIURL = strings.TrimSpace(os.Getenv("CLASSIFIER_API_URL"))
	c.Backends.CDRAPIURL = strings.TrimSpace(os.Getenv("CDR_API_URL"))
	c.Backends.CampaignAPIURL = strings.TrimSpace(os.Getenv("CAMPAIGN_API_URL"))
	c.Backends.NumbersAPIURL = strings.TrimSpace(os.Getenv("NUMBERS_API_URL"))
	c.Backends.ClientTimeout = optDuration("HTTP_CLIENT_TIMEOUT", DefaultClientTimeout)

	{
		n, err := optInt("FRAUD_SCORE_THRESHOLD", DefaultFraudScoreThreshold)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Pipeline.FraudScoreThreshold = n
	}
	{
		n, err := optInt("MAX_RETRIES", DefaultMaxRetries)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Pipeline.MaxRetries = n
	}
	{
		ms, err := optInt("RETRY_DELAY_MS", int(DefaultRetryDelay/time.Millisecond))
		ms, parseErrs = appendParseErr(parseErrs, ms, err)
		c.Pipeline.RetryDelay = time.Duration(ms) * time.Millisecond
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.DB.Host != "" {
		n, err := mustInt("DB_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.DB.Port = n
		c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
		c.DB.Password = os.Getenv("DB_PASSWORD")
		c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
		c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	}

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Host != "" {
		n, err := mustInt("REDIS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	for _, ep := range []struct {
		key string
		val string
	}{
		{"CLASSIFIER_API_URL", c.Backends.ClassifierAPIURL},
		{"CDR_API_URL", c.Backends.CDRAPIURL},
		{"CAMPAIGN_API_URL", c.Backends.CampaignAPIURL},
		{"NUMBERS_API_URL", c.Backends.NumbersAPIURL},
	} {
		if ep.val == "" {
			errs = append(errs, fmt.Errorf("%s is required", ep.key))
			continue
		}
		if u, err := url.Parse(ep.val); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", ep.key, ep.val))
		}
	}

	if c.Pipeline.FraudScoreThreshold < 0 || c.Pipeline.FraudScoreThreshold > 100 {
		errs = append(errs, fmt.Errorf("FRAUD_SCORE_THRESHOLD must be in 0-100, got %d", c.Pipeline.FraudScoreThreshold))
	}
	if c.Pipeline.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must be >= 1, got %d", c.Pipeline.MaxRetries))
	}
	if c.Pipeline.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("RETRY_DELAY_MS must be >= 0, got %s", c.Pipeline.RetryDelay))
	}

	if c.DB.Host != "" {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				// Local-friendly default; production must be explicit.
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	}

	if c.Redis.Host != "" {
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// AuditEnabled reports whether the optional Postgres audit store is configured.
func (c Config) AuditEnabled() bool { return c.DB.Host != "" }

// IdempotencyEnabled reports whether the optional Redis guard is configured.
func (c Config) IdempotencyEnabled() bool { return c.Redis.Host != "" }

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
