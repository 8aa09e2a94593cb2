package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Behyna/hisabkitab/pkg/httpclient"
)

type Provider interface {
	Send(ctx context.Context, msg Message) (Response, error)
}

type Config struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxRetry int           `mapstructure:"max_retry"`
}

type Message struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
	ShareLink string `json:"share_link,omitempty"`
	Reference int64  `json:"reference"`
}

type Response struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type WebhookProvider struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewWebhookProvider(cfg Config, client httpclient.HTTPClient) Provider {
	return &WebhookProvider{cfg: cfg, client: client}
}

func (w *WebhookProvider) Send(ctx context.Context, msg Message) (Response, error) {
	var headers map[string]string
	if w.cfg.Token != "" {
		headers = map[string]string{"Authorization": "Bearer " + w.cfg.Token}
	}

	resp, err := w.client.PostJSON(ctx, w.cfg.URL, msg, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Response{}, ErrTimeout
		}

		return Response{}, ErrNetworkError
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Response{}, ErrInvalidRequest
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Response{}, ErrServerError
	}

	if resp.StatusCode == http.StatusNoContent {
		return Response{Status: "accepted"}, nil
	}

	var res Response
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Response{}, ErrServerError
	}

	return res, nil
}
