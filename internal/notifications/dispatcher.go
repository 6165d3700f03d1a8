package notifications

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"plexorcist/internal/config"
	"plexorcist/internal/logging"
	"plexorcist/internal/services"
	"plexorcist/internal/services/httpapi"
	"plexorcist/internal/textutil"
)

// Dispatcher fans a message out to every configured channel.
type Dispatcher struct {
	channels []Channel
	messages config.Messages
	logger   *slog.Logger
}

// NewDispatcher builds channels for every non-empty endpoint in cfg.
// Pushbullet is enabled by its API key; its URL has a default.
func NewDispatcher(cfg *config.Config, requester *httpapi.Requester, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		messages: config.DefaultMessages(),
		logger:   logging.NewComponentLogger(logger, "notify"),
	}
	if cfg == nil {
		return d
	}
	d.messages = cfg.Messages
	if requester == nil {
		requester = httpapi.New(logger)
	}
	n := cfg.Notifications
	if n.IFTTTWebhook != "" {
		d.channels = append(d.channels, &iftttChannel{url: n.IFTTTWebhook, requester: requester})
	}
	if n.NtfyTopic != "" {
		d.channels = append(d.channels, &ntfyChannel{url: n.NtfyTopic, requester: requester})
	}
	if n.PushbulletAPIKey != "" {
		d.channels = append(d.channels, &pushbulletChannel{url: n.PushbulletURL, apiKey: n.PushbulletAPIKey, requester: requester})
	}
	return d
}

// NewDispatcherWithChannels builds a dispatcher over explicit channels.
func NewDispatcherWithChannels(messages config.Messages, logger *slog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		messages: messages,
		logger:   logging.NewComponentLogger(logger, "notify"),
	}
}

// Channels returns the configured channels in dispatch order.
func (d *Dispatcher) Channels() []Channel {
	return append([]Channel(nil), d.channels...)
}

// Enabled reports whether any channel is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.channels) > 0
}

// Dispatch sends msg on every channel and returns how many accepted it.
// Channels with an invalid endpoint are skipped and reported with the
// configuration error message.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) int {
	if d == nil {
		return 0
	}
	logger := logging.WithContext(ctx, d.logger)
	if len(d.channels) == 0 {
		logger.Info("no notification channels configured",
			logging.Hint("set notifications.ifttt_webhook, ntfy_topic or pushbullet_api_key to be notified"),
		)
		return 0
	}
	sent := 0
	for _, channel := range d.channels {
		channelLogger := logger.With(logging.String("channel", channel.Name()))
		if !ValidURL(channel.Endpoint()) {
			err := services.Wrap(services.ErrConfiguration, "notify", channel.Name(), "invalid endpoint", nil)
			logging.ErrorWithContext(channelLogger, textutil.FormatMessage(d.messages.IFTTTError, channel.Name()), "notification_config_invalid",
				logging.String("endpoint", httpapi.RedactURL(channel.Endpoint(), false)),
				logging.Error(err),
				logging.Hint("use an absolute URL such as https://ntfy.sh/topic"),
			)
			continue
		}
		if !channel.Send(ctx, msg) {
			logging.WarnWithContext(channelLogger, "notification not delivered", "notification_failed",
				logging.Impact("run result not pushed to this channel"),
			)
			continue
		}
		sent++
		channelLogger.Info(d.messages.Notification)
	}
	return sent
}

// ValidURL reports whether raw parses with a non-empty scheme and host.
func ValidURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
