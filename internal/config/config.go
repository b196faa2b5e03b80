// Package config loads mondaypro settings from a YAML file, a .env file and
// MONDAY_* environment variables.
package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robby/mondaypro/internal/auth"
	"github.com/robby/mondaypro/internal/monday"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MONDAY_AUTH_MODE.
const EnvPrefix = "MONDAY"

var (
	// ErrInvalidConfig is returned when the loaded settings fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the complete set of runtime settings.
type Config struct {
	AuthMode    string        `mapstructure:"auth_mode" validate:"oneof=accessToken oAuth2"`
	APIURL      string        `mapstructure:"api_url" validate:"required,url"`
	APIVersion  string        `mapstructure:"api_version" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxPages    int           `mapstructure:"max_pages" validate:"gte=0"`
	MetricsAddr string        `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`

	Retry     RetryConfig     `mapstructure:"retry"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	OAuth2    OAuth2Config    `mapstructure:"oauth2"`
}

// RetryConfig controls transport retries.
type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts" validate:"gte=1"`
	Delay    time.Duration `mapstructure:"delay" validate:"gte=0"`
}

// RateLimitConfig controls the client side request rate.
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second" validate:"gte=0"`
	Burst     int     `mapstructure:"burst" validate:"gte=0"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// OAuth2Config holds the OAuth2 app and token settings.
type OAuth2Config struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// Mode returns the authentication mode.
func (c *Config) Mode() auth.Mode {
	return auth.ParseMode(c.AuthMode)
}

// OAuth2Settings converts the OAuth2 section for the auth package.
func (c *Config) OAuth2Settings() auth.OAuth2Config {
	return auth.OAuth2Config{
		ClientID:     c.OAuth2.ClientID,
		ClientSecret: c.OAuth2.ClientSecret,
		AccessToken:  c.OAuth2.AccessToken,
		RefreshToken: c.OAuth2.RefreshToken,
	}
}

// TransportOptions returns the request defaults that differ from the fixed wire contract.
func (c *Config) TransportOptions() []transport.Option {
	var opts []transport.Option
	if c.APIURL != "" && c.APIURL != transport.DefaultURL {
		opts = append(opts, transport.WithURL(c.APIURL))
	}
	if c.APIVersion != "" && c.APIVersion != transport.APIVersion {
		opts = append(opts, transport.WithHeader(transport.HeaderAPIVersion, c.APIVersion))
	}
	if c.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(c.Timeout))
	}
	return opts
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auth_mode", string(auth.ModeAccessToken))
	v.SetDefault("api_url", transport.DefaultURL)
	v.SetDefault("api_version", transport.APIVersion)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("max_pages", monday.DefaultMaxPages)
	v.SetDefault("metrics_addr", "")

	retry := transport.DefaultRetryConfig()
	v.SetDefault("retry.attempts", retry.Attempts)
	v.SetDefault("retry.delay", retry.Delay)

	v.SetDefault("rate_limit.per_second", 5.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("oauth2.client_id", "")
	v.SetDefault("oauth2.client_secret", "")
	v.SetDefault("oauth2.access_token", "")
	v.SetDefault("oauth2.refresh_token", "")
}

// Load reads settings. Precedence, highest first: environment (after .env is
// loaded), the YAML file at path, defaults. An empty path skips the file; a
// missing .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg and reports every invalid field.
func Validate(cfg *Config) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate config")
	}

	fields := ParseValidationError(fieldErrs)
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %s", name, fields[name]))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// newValidator reports fields by their mapstructure key, the name users write.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

// ParseValidationError maps each failing field to a readable message.
func ParseValidationError(errs validator.ValidationErrors) map[string]string {
	fieldErrors := make(map[string]string, len(errs))
	for _, err := range errs {
		fieldErrors[fieldName(err)] = msgForFieldError(err)
	}
	return fieldErrors
}

func msgForFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "url":
		return fmt.Sprintf("Invalid URL %q", fieldError.Value())
	case "hostname_port":
		return fmt.Sprintf("Expected host:port, got %q", fieldError.Value())
	case "oneof":
		params := strings.Join(strings.Split(fieldError.Param(), " "), ", ")
		return fmt.Sprintf("Unexpected value %q. Expected one of the following values: %s", fieldError.Value(), params)
	case "gte":
		if fieldError.Kind() == reflect.Int64 && fieldError.Type() == reflect.TypeOf(time.Duration(0)) {
			return "Should not be negative"
		}
		return fmt.Sprintf("Should be greater than or equal %s", fieldError.Param())
	default:
		return "Invalid value"
	}
}

// fieldName turns Config.retry.attempts into retry.attempts.
func fieldName(fieldError validator.FieldError) string {
	namespace := fieldError.Namespace()
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
