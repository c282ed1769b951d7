package config

import (
	"os"
	"strconv"
	"time"

	"botnanny/internal/helper"
	"botnanny/internal/models"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"

	apiKeyENV    = "THREE_COMMAS_API_KEY"
	apiSecretENV = "THREE_COMMAS_API_SECRET"
	tgTokenENV   = "TELEGRAM_BOT_TOKEN"
	tgChatENV    = "TELEGRAM_CHAT_ID"
)

type RuleConfig struct {
	MinPnlPercent      float64 `mapstructure:"min_pnl_percent"`
	NewStopLossPercent float64 `mapstructure:"new_stop_loss_percent"`
}

type ThreeCommasConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`

	AccountIDs []int64 `mapstructure:"account_ids"`
	BotIDs     []int64 `mapstructure:"bot_ids"`
	DealIDs    []int64 `mapstructure:"deal_ids"`

	MaxAttempts         int     `mapstructure:"max_attempts"`
	PaceIntervalSeconds float64 `mapstructure:"pace_interval_seconds"`
}

func (t ThreeCommasConfig) PaceInterval() time.Duration {
	return time.Duration(t.PaceIntervalSeconds * float64(time.Second))
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

type HealthConfig struct {
	Addr string `mapstructure:"addr"`
}

type JaegerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Config ...
type Config struct {
	IntervalSeconds       int  `mapstructure:"interval_seconds"`
	MaxFailedCycles       int  `mapstructure:"max_failed_cycles"`
	RequestTimeoutSeconds int  `mapstructure:"request_timeout_seconds"`
	FetchTimeoutSeconds   int  `mapstructure:"fetch_timeout_seconds"`
	Debug                 bool `mapstructure:"debug"`

	Rules []RuleConfig `mapstructure:"rules"`

	ThreeCommas ThreeCommasConfig `mapstructure:"three_commas"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Health      HealthConfig      `mapstructure:"health"`
	Jaeger      JaegerConfig      `mapstructure:"jaeger"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile("configs/" + configFileName)
	v.SetConfigType("toml")

	v.SetDefault("interval_seconds", 600)
	v.SetDefault("max_failed_cycles", 3)
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("fetch_timeout_seconds", 120)
	v.SetDefault("three_commas.max_attempts", 4)
	v.SetDefault("three_commas.pace_interval_seconds", 1.0)
	v.SetDefault("health.addr", ":8080")
	v.SetDefault("jaeger.host", "127.0.0.1")
	v.SetDefault("jaeger.port", 6831)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}

	// Секреты из окружения перекрывают файл
	if key := os.Getenv(apiKeyENV); key != "" {
		config.ThreeCommas.APIKey = key
	}
	if secret := os.Getenv(apiSecretENV); secret != "" {
		config.ThreeCommas.APISecret = secret
	}
	if token := os.Getenv(tgTokenENV); token != "" {
		config.Telegram.BotToken = token
	}
	if chat := int64FromEnv(tgChatENV, 0); chat != 0 {
		config.Telegram.ChatID = chat
	}

	// Правило по умолчанию: 4% PnL -> SL 1%
	if len(config.Rules) == 0 {
		config.Rules = []RuleConfig{{MinPnlPercent: 4.0, NewStopLossPercent: 1.0}}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.ThreeCommas.APIKey == "" {
		return errors.New("config: three_commas.api_key is required")
	}
	if c.ThreeCommas.APISecret == "" {
		return errors.New("config: three_commas.api_secret is required")
	}
	if len(c.ThreeCommas.AccountIDs)+len(c.ThreeCommas.BotIDs)+len(c.ThreeCommas.DealIDs) == 0 {
		return errors.New("config: at least one of account_ids/bot_ids/deal_ids is required")
	}
	if c.IntervalSeconds < 10 {
		return errors.Errorf("config: interval_seconds too small: %d", c.IntervalSeconds)
	}

	seen := map[float64]struct{}{}
	for _, r := range c.Rules {
		if r.MinPnlPercent <= 0 {
			return errors.Errorf("config: rule min_pnl_percent must be positive, got %v", r.MinPnlPercent)
		}
		if r.NewStopLossPercent >= r.MinPnlPercent {
			return errors.Errorf(
				"config: rule new_stop_loss_percent %v must be below min_pnl_percent %v",
				r.NewStopLossPercent, r.MinPnlPercent,
			)
		}
		if _, dup := seen[r.MinPnlPercent]; dup {
			return errors.Errorf("config: duplicate rule for min_pnl_percent %v", r.MinPnlPercent)
		}
		seen[r.MinPnlPercent] = struct{}{}
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// FetchTimeout — потолок на выгрузку одного таргета; по истечении таргет
// просто выпадает из текущего цикла, не останавливая остальных.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RuleSet переводит правила в decimal с точностью платформы.
func (c *Config) RuleSet() models.RuleSet {
	rs := make(models.RuleSet, 0, len(c.Rules))
	for _, r := range c.Rules {
		rs = append(rs, models.Rule{
			MinPnlPercent:      helper.Percent(r.MinPnlPercent),
			NewStopLossPercent: helper.Percent(r.NewStopLossPercent),
		})
	}
	return rs
}

// Targets — цели мониторинга, как их задал оператор.
func (c *Config) Targets() []models.Target {
	var ts []models.Target
	for _, id := range c.ThreeCommas.AccountIDs {
		ts = append(ts, models.Target{Kind: models.TargetAccount, ID: id})
	}
	for _, id := range c.ThreeCommas.BotIDs {
		ts = append(ts, models.Target{Kind: models.TargetBot, ID: id})
	}
	for _, id := range c.ThreeCommas.DealIDs {
		ts = append(ts, models.Target{Kind: models.TargetDeal, ID: id})
	}
	return ts
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
