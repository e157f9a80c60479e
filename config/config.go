package config

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/odit-bit/chatreply/observability"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var defaultConfig embed.FS

const envPrefix = "CHATREPLY"

// holds aggregate configuration of the responder. It is built once and then
// only passed by value.
type Config struct {
	Server   ServerConfig         `mapstructure:"server" yaml:"server"`
	Log      LogConfig            `mapstructure:"log" yaml:"log"`
	Bot      BotConfig            `mapstructure:"bot" yaml:"bot"`
	Primary  ProviderConfig       `mapstructure:"primary" yaml:"primary"`
	Fallback ProviderConfig       `mapstructure:"fallback" yaml:"fallback"`
	Generate GenerateConfig       `mapstructure:"generate" yaml:"generate"`
	Persona  string               `mapstructure:"persona" yaml:"persona"`
	Observe  observability.Config `mapstructure:"observe" yaml:"observe"`
}

// webhook server config
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address" validate:"required,hostname_port"`
	Path    string `mapstructure:"path" yaml:"path" validate:"required,startswith=/"`
	Debug   bool   `mapstructure:"debug" yaml:"debug"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

type BotConfig struct {
	Token string `mapstructure:"token" yaml:"token"`
	// ChatID is the only chat served, compared as a string.
	ChatID  string        `mapstructure:"chat_id" yaml:"chat_id"`
	APIURL  string        `mapstructure:"api_url" yaml:"api_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// external chat-completion provider
type ProviderConfig struct {
	Name    string `mapstructure:"name" yaml:"name" validate:"required"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model" validate:"required"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Referer string `mapstructure:"referer" yaml:"referer,omitempty"`
}

type GenerateConfig struct {
	Temperature float64       `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Redacted returns a copy with credentials masked.
func (c Config) Redacted() Config {
	c.Bot.Token = redact(c.Bot.Token)
	c.Primary.APIKey = redact(c.Primary.APIKey)
	c.Fallback.APIKey = redact(c.Fallback.APIKey)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-2:]
}

// load configuration from default embedded config.yaml, provided config file,
// env file, env and flags before validation.
func LoadAndValidate(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. optional dotenv file feeds the process environment
	if envFile, _ := flags.GetString(FLAG_ENV_FILE); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
	}

	// 2. env variables, prefixed keys plus the legacy plain names
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range envAliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", name, err)
		}
	}

	// 3. flags
	for flagName, configKey := range flagToConfigKeyMap {
		if f := flags.Lookup(flagName); f != nil {
			if err := v.BindPFlag(configKey, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}
	}

	// 4. defaults from the embedded config.yaml
	defaultBytes, err := defaultConfig.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaultBytes)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	// 5. external config file merged over the defaults
	if configFile, _ := flags.GetString(FLAG_CONFIG_FILE); configFile != "" {
		b, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envAliases maps config keys to the unprefixed environment names the bot
// has always been deployed with.
var envAliases = map[string]string{
	"bot.token":        "BOT_TOKEN",
	"bot.chat_id":      "CHAT_ID",
	"primary.api_key":  "ZENMUX_API_KEY",
	"primary.model":    "ZENMUX_MODEL",
	"primary.base_url": "ZENMUX_BASE_URL",
	"fallback.api_key": "OPENROUTER_API_KEY",
	"fallback.model":   "OPENROUTER_MODEL",
	"persona":          "PERSONALITY",
}
