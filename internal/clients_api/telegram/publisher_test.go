package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"support-chart/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	errs  []error
	calls []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls = append(f.calls, c)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return tgbotapi.Message{}, err
		}
	}
	return tgbotapi.Message{MessageID: 100 + len(f.calls)}, nil
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0644))
	return path
}

func fastOptions(chatID string) Options {
	return Options{
		ChatID:     chatID,
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Interval:   time.Millisecond,
	}
}

func TestPublishChart_Success(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewPublisher(sender, fastOptions("-100123"))
	require.NoError(t, err)

	id, err := p.PublishChart(context.Background(), writeChart(t), "weekly response times")
	require.NoError(t, err)
	assert.Equal(t, 101, id)

	require.Len(t, sender.calls, 1)
	photo, ok := sender.calls[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), photo.ChatID)
	assert.Equal(t, "weekly response times", photo.Caption)
}

func TestPublishChart_RetriesRateLimited(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tgbotapi.Error{Code: 429, Message: "Too Many Requests"},
		&tgbotapi.Error{Code: 502, Message: "Bad Gateway"},
	}}
	p, err := NewPublisher(sender, fastOptions("42"))
	require.NoError(t, err)

	id, err := p.PublishChart(context.Background(), writeChart(t), "")
	require.NoError(t, err)
	assert.Equal(t, 103, id)
	assert.Len(t, sender.calls, 3)
}

func TestPublishChart_PermanentErrorNotRetried(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"},
	}}
	p, err := NewPublisher(sender, fastOptions("42"))
	require.NoError(t, err)

	_, err = p.PublishChart(context.Background(), writeChart(t), "")
	require.Error(t, err)

	var ae *retry.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 400, ae.StatusCode)
	assert.Len(t, sender.calls, 1)
}

func TestPublishChart_TransportErrorNotRetried(t *testing.T) {
	sender := &fakeSender{errs: []error{errors.New("connection reset")}}
	p, err := NewPublisher(sender, fastOptions("42"))
	require.NoError(t, err)

	_, err = p.PublishChart(context.Background(), writeChart(t), "")
	assert.ErrorContains(t, err, "connection reset")
	assert.Len(t, sender.calls, 1)
}

func TestPublishChart_MissingFile(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewPublisher(sender, fastOptions("42"))
	require.NoError(t, err)

	_, err = p.PublishChart(context.Background(), filepath.Join(t.TempDir(), "absent.png"), "")
	assert.Error(t, err)
	assert.Empty(t, sender.calls)
}

func TestPublishChart_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewPublisher(sender, fastOptions("42"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.PublishChart(ctx, writeChart(t), "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.calls)
}

func TestParseChatID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12345", 12345, false},
		{" -1001234567890 ", -1001234567890, false},
		{"", 0, true},
		{"@channel", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseChatID(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestClassify(t *testing.T) {
	err := classify(&tgbotapi.Error{Code: 429, Message: "slow down", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 3}})
	var ae *retry.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 429, ae.StatusCode)
	assert.Equal(t, 3*time.Second, ae.RetryAfter)

	plain := errors.New("dial tcp: timeout")
	assert.Equal(t, plain, classify(plain))
}
