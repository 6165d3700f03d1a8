package notifications

import (
	"context"
	"net/http"
	"strings"

	"plexorcist/internal/services/httpapi"
)

// Message is a channel-neutral notification.
type Message struct {
	Title    string
	Body     string
	Tags     []string
	Priority string
}

// Channel delivers a message to one endpoint.
type Channel interface {
	Name() string
	Endpoint() string
	Send(ctx context.Context, msg Message) bool
}

type iftttChannel struct {
	url       string
	requester *httpapi.Requester
}

func (c *iftttChannel) Name() string     { return "IFTTT" }
func (c *iftttChannel) Endpoint() string { return c.url }

func (c *iftttChannel) Send(ctx context.Context, msg Message) bool {
	_, ok := c.requester.Do(ctx, httpapi.Request{
		Method:     http.MethodPost,
		URL:        c.url,
		JSON:       map[string]string{"value1": msg.Body},
		SecretPath: true,
	})
	return ok
}

type ntfyChannel struct {
	url       string
	requester *httpapi.Requester
}

func (c *ntfyChannel) Name() string     { return "ntfy" }
func (c *ntfyChannel) Endpoint() string { return c.url }

func (c *ntfyChannel) Send(ctx context.Context, msg Message) bool {
	header := map[string]string{"Title": msg.Title}
	if len(msg.Tags) > 0 {
		header["Tags"] = strings.Join(msg.Tags, ",")
	}
	if msg.Priority != "" && msg.Priority != "default" {
		header["Priority"] = msg.Priority
	}
	_, ok := c.requester.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		URL:    c.url,
		Text:   msg.Body,
		Header: header,
		// ntfy topics are readable by anyone who knows the name.
		SecretPath: true,
	})
	return ok
}

type pushbulletChannel struct {
	url       string
	apiKey    string
	requester *httpapi.Requester
}

type pushbulletNote struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *pushbulletChannel) Name() string     { return "Pushbullet" }
func (c *pushbulletChannel) Endpoint() string { return c.url }

func (c *pushbulletChannel) Send(ctx context.Context, msg Message) bool {
	note := pushbulletNote{Type: "note", Title: msg.Title, Body: msg.Body}
	_, ok := c.requester.PostJSON(ctx, c.url, note, map[string]string{"Access-Token": c.apiKey})
	return ok
}
