package config

import (
	"os"
	"path/filepath"
	"testing"

	"support-chart/internal/dataset"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, "chart.png", cfg.Chart.Output)
	assert.Equal(t, 512, cfg.Chart.Size)
	assert.Equal(t, uint64(42), cfg.Chart.Seed)
	assert.Equal(t, 400, cfg.Chart.Samples)
	assert.Equal(t, 1.0, cfg.Chart.Floor)
	assert.Equal(t, 64.0, cfg.Chart.DPI)
	assert.Equal(t, 8.0, cfg.Chart.FigureInches)
	assert.Equal(t, "Customer Support Response Time Distribution\nby Channel", cfg.Chart.Title)
	assert.Equal(t, "Support Channel", cfg.Chart.XLabel)
	assert.Equal(t, "Response Time (minutes)", cfg.Chart.YLabel)
	assert.Empty(t, cfg.Chart.DataOut)
	assert.Equal(t, dataset.DefaultChannels, cfg.Channels)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Telegram.MaxRetries)
}

func TestLoad_NilFlagSet(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "chart.png", cfg.Chart.Output)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SUPPORT_CHART_CHART_SEED", "7")
	t.Setenv("SUPPORT_CHART_CHART_OUTPUT", "other.png")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Chart.Seed)
	assert.Equal(t, "other.png", cfg.Chart.Output)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "-100200", cfg.Telegram.ChatID)
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestLoad_FlagsBeatEnv(t *testing.T) {
	t.Setenv("SUPPORT_CHART_CHART_SEED", "7")

	cfg, err := Load(newFlagSet(t, "--seed", "9", "--samples", "800", "--output", "flag.png"))
	require.NoError(t, err)

	assert.Equal(t, uint64(9), cfg.Chart.Seed)
	assert.Equal(t, 800, cfg.Chart.Samples)
	assert.Equal(t, "flag.png", cfg.Chart.Output)
}

func TestLoad_UnsetFlagDoesNotShadowEnv(t *testing.T) {
	t.Setenv("SUPPORT_CHART_LOG_LEVEL", "debug")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	content := `
chart:
  samples: 6
  seed: 5
channels:
  - name: Email
    mean: 30
    stddev: 2
  - name: Chat
    mean: 3
    stddev: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(newFlagSet(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Chart.Samples)
	assert.Equal(t, uint64(5), cfg.Chart.Seed)
	assert.Equal(t, []dataset.ChannelParams{
		{Name: "Email", Mean: 30, StdDev: 2},
		{Name: "Chat", Mean: 3, StdDev: 1},
	}, cfg.Channels)
	// untouched keys keep their defaults
	assert.Equal(t, 512, cfg.Chart.Size)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"uneven samples", []string{"--samples", "401"}},
		{"zero size", []string{"--size", "0"}},
		{"empty output", []string{"--output", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlagSet(t, tt.args...))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidateConfig_Channels(t *testing.T) {
	base := func() *Config {
		return &Config{
			Chart:    ChartConfig{Output: "c.png", Size: 1, DPI: 1, FigureInches: 1, Samples: 2},
			Channels: []dataset.ChannelParams{{Name: "A"}, {Name: "B"}},
		}
	}

	assert.NoError(t, validateConfig(base()))

	dup := base()
	dup.Channels[1].Name = "A"
	assert.ErrorIs(t, validateConfig(dup), ErrInvalidConfig)

	unnamed := base()
	unnamed.Channels[0].Name = ""
	assert.ErrorIs(t, validateConfig(unnamed), ErrInvalidConfig)

	negative := base()
	negative.Channels[0].StdDev = -1
	assert.ErrorIs(t, validateConfig(negative), ErrInvalidConfig)

	none := base()
	none.Channels = nil
	assert.ErrorIs(t, validateConfig(none), ErrInvalidConfig)
}

func TestValidateTelegram(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.ValidateTelegram(), ErrInvalidConfig)

	cfg.Telegram.BotToken = "token"
	assert.ErrorIs(t, cfg.ValidateTelegram(), ErrInvalidConfig)

	cfg.Telegram.ChatID = "1"
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestDatasetOptions(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	opts := cfg.DatasetOptions()
	assert.Equal(t, 400, opts.Total)
	assert.Equal(t, uint64(42), opts.Seed)
	assert.Equal(t, 1.0, opts.Floor)
	assert.Len(t, opts.Channels, 4)
}
