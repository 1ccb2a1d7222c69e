// Package config loads the server configuration from an optional YAML file
// and COMMISSIONS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/rules"
)

// EnvPrefix prefixes every environment override, e.g. COMMISSIONS_SERVER_PORT.
const EnvPrefix = "COMMISSIONS"

type ServerCfg struct {
	Port int `mapstructure:"port"`
}

type DatabaseCfg struct {
	Path string `mapstructure:"path"`
}

type AuthCfg struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
}

type LogCfg struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CommissionCfg holds the platform-wide rates. Percentages are decimal
// strings so they are never rounded through a float.
type CommissionCfg struct {
	PlatformFeePercent    string `mapstructure:"platform_fee_percent"`
	ClientSharePercent    string `mapstructure:"client_share_percent"`
	MissingReferrerPolicy string `mapstructure:"missing_referrer_policy"`
}

type Config struct {
	Server     ServerCfg     `mapstructure:"server"`
	Database   DatabaseCfg   `mapstructure:"database"`
	Auth       AuthCfg       `mapstructure:"auth"`
	Log        LogCfg        `mapstructure:"log"`
	Commission CommissionCfg `mapstructure:"commission"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "./data/commissions.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_duration", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("commission.platform_fee_percent", "10")
	v.SetDefault("commission.client_share_percent", "50")
	v.SetDefault("commission.missing_referrer_policy", string(models.PolicyNoReferral))
}

// Load reads the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file failed: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required (set " + EnvPrefix + "_AUTH_JWT_SECRET)")
	}
	if c.Auth.TokenDuration <= 0 {
		return fmt.Errorf("auth.token_duration must be positive, got %s", c.Auth.TokenDuration)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if _, err := c.Commission.Defaults(); err != nil {
		return err
	}
	return nil
}

// Defaults converts the commission settings into resolver defaults.
func (c CommissionCfg) Defaults() (rules.Defaults, error) {
	platform, err := money.ParsePercent(c.PlatformFeePercent)
	if err != nil {
		return rules.Defaults{}, fmt.Errorf("commission.platform_fee_percent: %w", err)
	}
	share, err := money.ParsePercent(c.ClientSharePercent)
	if err != nil {
		return rules.Defaults{}, fmt.Errorf("commission.client_share_percent: %w", err)
	}
	d := rules.Defaults{
		PlatformFeeRate: platform,
		ClientShareRate: share,
		MissingReferrer: models.MissingReferrerPolicy(c.MissingReferrerPolicy),
	}
	if err := d.Validate(); err != nil {
		return rules.Defaults{}, fmt.Errorf("commission: %w", err)
	}
	return d, nil
}
