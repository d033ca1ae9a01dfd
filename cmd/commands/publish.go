package commands

// Generates the chart and sends it as a photo to a Telegram chat
// Needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID (or the telegram.* config keys)
// Interrupting the command cancels pending retries

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-chart/internal/clients_api/telegram"
	"support-chart/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Generate the chart and post it to a Telegram chat",
		Long:  `Generate chart.png exactly like the default command, then upload it as a photo to the configured Telegram chat.`,
		Args:  cobra.NoArgs,
		RunE:  runPublish,
	}
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chartPath, err := generateChart(cfg)
	if err != nil {
		return err
	}

	publisher, err := telegram.NewBotPublisher(cfg.Telegram.BotToken,
		time.Duration(cfg.Telegram.RequestTimeout)*time.Second,
		telegram.Options{
			ChatID:     cfg.Telegram.ChatID,
			MaxRetries: cfg.Telegram.MaxRetries,
		})
	if err != nil {
		return err
	}

	messageID, err := publisher.PublishChart(ctx, chartPath, cfg.Telegram.Caption)
	if err != nil {
		return err
	}

	log.LogInfo("Publish finished", zap.String("chart", chartPath), zap.Int("message_id", messageID))
	writeLine(cmd.OutOrStdout(), "Chart published to Telegram (message %d)", messageID)
	return nil
}
