package telegram

// Sends generated charts to a Telegram chat
// Requests go through a rate limiter, a circuit breaker and jittered retries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	logging "support-chart/internal/infra/log"
	"support-chart/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Publisher struct {
	sender         Sender
	chatID         int64
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retry          retry.Options
}

type Options struct {
	ChatID     string
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Interval   time.Duration // minimum gap between sends, default 1s
}

// NewPublisher wraps an existing sender.
func NewPublisher(sender Sender, opts Options) (*Publisher, error) {
	chatID, err := ParseChatID(opts.ChatID)
	if err != nil {
		return nil, err
	}

	// Telegram allows about one message per second per chat
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	rateLimiter := rate.NewLimiter(rate.Every(interval), 1)

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			// client errors are our fault, not the API's
			return err == nil || !retry.IsRetryable(err) && !isTransport(err)
		},
	})

	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	return &Publisher{
		sender:         sender,
		chatID:         chatID,
		rateLimiter:    rateLimiter,
		circuitBreaker: circuitBreaker,
		retry: retry.Options{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  baseDelay,
			MaxDelay:   maxDelay,
		},
	}, nil
}

// NewBotPublisher authorizes a bot token and wraps the resulting bot.
func NewBotPublisher(token string, timeout time.Duration, opts Options) (*Publisher, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	logging.LogSuccess("Telegram bot authorized", zap.String("username", bot.Self.UserName))

	return NewPublisher(bot, opts)
}

// ParseChatID accepts numeric chat IDs, including negative group IDs.
func ParseChatID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("telegram chat id is empty")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid telegram chat id %q: %w", s, err)
	}
	return id, nil
}

// PublishChart uploads the PNG at path as a photo and returns the message ID.
func (p *Publisher) PublishChart(ctx context.Context, path, caption string) (int, error) {
	requestID := logging.GenerateRequestID()
	reqLog := logging.RequestLogger(requestID)
	startTime := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("chart file not available: %w", err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("chart file %s is empty", path)
	}

	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption

	var messageID int
	attempt := 0
	err = retry.Do(ctx, p.retry, func() error {
		attempt++
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}

		_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			msg, err := p.sender.Send(photo)
			if err != nil {
				return nil, classify(err)
			}
			messageID = msg.MessageID
			return msg, nil
		})
		if err != nil {
			reqLog.Warn("Telegram send attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	})

	durationMs := time.Since(startTime).Milliseconds()
	if err != nil {
		logging.LogError("Failed to publish chart",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Int64("duration_ms", durationMs),
			zap.Error(err))
		return 0, fmt.Errorf("failed to publish chart: %w", err)
	}

	logging.LogSuccess("Chart published to Telegram",
		zap.String("request_id", requestID),
		zap.Int64("chat_id", p.chatID),
		zap.Int("message_id", messageID),
		zap.Int64("duration_ms", durationMs))
	return messageID, nil
}

// classify turns Telegram API errors into retry.APIError so the retry policy
// can see status codes and retry_after hints.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return toAPIError(*apiErr)
	}
	var valErr tgbotapi.Error
	if errors.As(err, &valErr) {
		return toAPIError(valErr)
	}
	return err
}

func toAPIError(e tgbotapi.Error) *retry.APIError {
	return &retry.APIError{
		StatusCode: e.Code,
		Message:    e.Message,
		RetryAfter: time.Duration(e.RetryAfter) * time.Second,
	}
}

func isTransport(err error) bool {
	var ae *retry.APIError
	return !errors.As(err, &ae)
}
