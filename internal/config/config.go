package config

import (
	"errors"
	"fmt"
	"strings"

	"support-chart/internal/dataset"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "SUPPORT_CHART"

type Config struct {
	Chart    ChartConfig             `mapstructure:"chart"`
	Channels []dataset.ChannelParams `mapstructure:"channels"`
	Log      LogConfig               `mapstructure:"log"`
	Telegram TelegramConfig          `mapstructure:"telegram"`
}

// ChartConfig - sampling, rendering and export settings
type ChartConfig struct {
	Output       string  `mapstructure:"output"`
	Size         int     `mapstructure:"size"`          // final PNG edge in pixels
	Seed         uint64  `mapstructure:"seed"`
	Samples      int     `mapstructure:"samples"`       // total across all channels
	Floor        float64 `mapstructure:"floor"`         // response times are clamped up to this
	DPI          float64 `mapstructure:"dpi"`
	FigureInches float64 `mapstructure:"figure_inches"` // square figure edge before export
	Title        string  `mapstructure:"title"`
	XLabel       string  `mapstructure:"x_label"`
	YLabel       string  `mapstructure:"y_label"`
	FontPath     string  `mapstructure:"font_path"`
	DataOut      string  `mapstructure:"data_out"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// TelegramConfig is only required by the publish command
type TelegramConfig struct {
	BotToken       string `mapstructure:"bot_token"`
	ChatID         string `mapstructure:"chat_id"`
	Caption        string `mapstructure:"caption"`
	MaxRetries     int    `mapstructure:"max_retries"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
}

// flag name -> config key
var flagKeys = map[string]string{
	"output":    "chart.output",
	"size":      "chart.size",
	"seed":      "chart.seed",
	"samples":   "chart.samples",
	"font":      "chart.font_path",
	"data-out":  "chart.data_out",
	"log-file":  "log.file",
	"log-level": "log.level",
	"chat-id":   "telegram.chat_id",
	"caption":   "telegram.caption",
}

// RegisterFlags declares the command line overrides on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (default: ./config.yaml if present)")
	fs.String("output", "chart.png", "Output PNG path (env: SUPPORT_CHART_CHART_OUTPUT)")
	fs.Int("size", 512, "Edge of the exported square image in pixels (env: SUPPORT_CHART_CHART_SIZE)")
	fs.Uint64("seed", dataset.DefaultSeed, "Random seed for the synthetic data (env: SUPPORT_CHART_CHART_SEED)")
	fs.Int("samples", dataset.DefaultSamples, "Total number of samples, split evenly across channels (env: SUPPORT_CHART_CHART_SAMPLES)")
	fs.String("font", "", "TTF font used for all text instead of the embedded Go fonts (env: SUPPORT_CHART_CHART_FONT_PATH)")
	fs.String("data-out", "", "Also write the generated dataset as JSON to this path (env: SUPPORT_CHART_CHART_DATA_OUT)")
	fs.String("log-file", "", "Write structured logs to this file instead of stderr (env: SUPPORT_CHART_LOG_FILE)")
	fs.String("log-level", "warn", "Structured log level: debug, info, warn, error (env: SUPPORT_CHART_LOG_LEVEL)")
	fs.String("chat-id", "", "Telegram chat ID for publish (env: TELEGRAM_CHAT_ID)")
	fs.String("caption", "", "Caption sent with the published chart (env: SUPPORT_CHART_TELEGRAM_CAPTION)")
}

// Load builds the config from defaults, config file, .env, environment and flags,
// in increasing priority. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	configFile := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Chart
	v.SetDefault("chart.output", "chart.png")
	v.SetDefault("chart.size", 512)
	v.SetDefault("chart.seed", dataset.DefaultSeed)
	v.SetDefault("chart.samples", dataset.DefaultSamples)
	v.SetDefault("chart.floor", dataset.DefaultFloor)
	v.SetDefault("chart.dpi", 64.0)
	v.SetDefault("chart.figure_inches", 8.0) // 8in at 64 DPI = 512px
	v.SetDefault("chart.title", "Customer Support Response Time Distribution\nby Channel")
	v.SetDefault("chart.x_label", "Support Channel")
	v.SetDefault("chart.y_label", "Response Time (minutes)")
	v.SetDefault("chart.font_path", "")
	v.SetDefault("chart.data_out", "")

	channels := make([]map[string]interface{}, 0, len(dataset.DefaultChannels))
	for _, ch := range dataset.DefaultChannels {
		channels = append(channels, map[string]interface{}{
			"name":   ch.Name,
			"mean":   ch.Mean,
			"stddev": ch.StdDev,
		})
	}
	v.SetDefault("channels", channels)

	// Log
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.caption", "Customer support response times by channel")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.request_timeout", 30)
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.bot_token", envPrefix+"_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", envPrefix+"_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
}

// bindFlags only binds flags the user actually set, so an unset flag
// never shadows a value from the config file or the environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	c := cfg.Chart
	switch {
	case c.Output == "":
		return fmt.Errorf("%w: chart.output is empty", ErrInvalidConfig)
	case c.Size <= 0:
		return fmt.Errorf("%w: chart.size must be positive, got %d", ErrInvalidConfig, c.Size)
	case c.DPI <= 0:
		return fmt.Errorf("%w: chart.dpi must be positive, got %v", ErrInvalidConfig, c.DPI)
	case c.FigureInches <= 0:
		return fmt.Errorf("%w: chart.figure_inches must be positive, got %v", ErrInvalidConfig, c.FigureInches)
	case len(cfg.Channels) == 0:
		return fmt.Errorf("%w: at least one channel is required", ErrInvalidConfig)
	case c.Samples <= 0 || c.Samples%len(cfg.Channels) != 0:
		return fmt.Errorf("%w: chart.samples (%d) must be a positive multiple of the channel count (%d)",
			ErrInvalidConfig, c.Samples, len(cfg.Channels))
	}

	seen := make(map[string]bool, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		if ch.Name == "" {
			return fmt.Errorf("%w: channel name is empty", ErrInvalidConfig)
		}
		if seen[ch.Name] {
			return fmt.Errorf("%w: duplicate channel %q", ErrInvalidConfig, ch.Name)
		}
		seen[ch.Name] = true
		if ch.StdDev < 0 {
			return fmt.Errorf("%w: channel %q has negative stddev", ErrInvalidConfig, ch.Name)
		}
	}

	return nil
}

// ValidateTelegram checks the settings the publish command needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("%w: telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)", ErrInvalidConfig)
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("%w: telegram.chat_id is required (env: TELEGRAM_CHAT_ID)", ErrInvalidConfig)
	}
	return nil
}

// DatasetOptions maps the chart settings onto dataset generation options.
func (c *Config) DatasetOptions() dataset.Options {
	return dataset.Options{
		Channels: c.Channels,
		Total:    c.Chart.Samples,
		Seed:     c.Chart.Seed,
		Floor:    c.Chart.Floor,
	}
}
