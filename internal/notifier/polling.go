package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CommandHandler is called when a user command is received. An empty reply
// sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

const pollRetryDelay = 5 * time.Second

// StartPolling long-polls for chat commands and answers them in the chat they
// came from. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		if ctx.Err() != nil {
			t.logger.Info("telegram polling stopped")
			return
		}

		updates, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				t.logger.Info("telegram polling stopped")
				return
			}
			t.logger.Warn("polling request failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			t.logger.Info("received command", zap.String("command", text))
			reply := handler(ctx, text)
			if reply == "" {
				continue
			}
			chatID := t.ChatID
			if update.Message.Chat.ID != 0 {
				chatID = strconv.FormatInt(update.Message.Chat.ID, 10)
			}
			if err := t.SendTo(ctx, chatID, reply); err != nil {
				t.logger.Error("send reply", zap.Error(err))
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=%d", t.method("getUpdates"), offset, int(t.poll.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "get updates")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read updates")
	}
	var result struct {
		OK          bool             `json:"ok"`
		Description string           `json:"description"`
		Result      []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decode updates")
	}
	if !result.OK {
		return nil, errors.Errorf("getUpdates: %s", result.Description)
	}
	return result.Result, nil
}
