//go:build integration

package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"support-chart/internal/clients_api/telegram"
	"support-chart/internal/dataset"
	"support-chart/internal/features/charts"
)

// TestIntegration_Telegram_PublishChart:
// - Generates the default chart into a temp dir
// - Sends it to TELEGRAM_CHAT_ID with TELEGRAM_BOT_TOKEN
func TestIntegration_Telegram_PublishChart(t *testing.T) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatID == "" {
		t.Skip("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required")
	}

	ds, err := dataset.Generate(dataset.Options{
		Channels: dataset.DefaultChannels,
		Total:    dataset.DefaultSamples,
		Seed:     dataset.DefaultSeed,
		Floor:    dataset.DefaultFloor,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	opts := charts.DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "chart.png")
	chartPath, err := charts.GenerateResponseTimeChart(ds, opts)
	if err != nil {
		t.Fatalf("GenerateResponseTimeChart failed: %v", err)
	}

	publisher, err := telegram.NewBotPublisher(token, 30*time.Second, telegram.Options{ChatID: chatID, MaxRetries: 2})
	if err != nil {
		t.Fatalf("NewBotPublisher failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	messageID, err := publisher.PublishChart(ctx, chartPath, "integration test: "+charts.SuccessMessage)
	if err != nil {
		t.Fatalf("PublishChart failed: %v", err)
	}
	if messageID <= 0 {
		t.Fatalf("expected message id > 0, got %d", messageID)
	}
}
