package plex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"plexorcist/internal/logging"
	"plexorcist/internal/services/httpapi"
)

const (
	defaultProduct = "Plexorcist"
	defaultVersion = "dev"
)

// Client calls the Plex Media Server HTTP API.
type Client struct {
	baseURL   string
	token     string
	clientID  string
	product   string
	version   string
	requester *httpapi.Requester
	logger    *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithClientIdentifier overrides X-Plex-Client-Identifier, which otherwise
// is a random UUID generated per client.
func WithClientIdentifier(id string) Option {
	return func(c *Client) {
		if id = strings.TrimSpace(id); id != "" {
			c.clientID = id
		}
	}
}

// WithProduct sets the product name and version advertised to the server.
func WithProduct(name, version string) Option {
	return func(c *Client) {
		if name = strings.TrimSpace(name); name != "" {
			c.product = name
		}
		if version = strings.TrimSpace(version); version != "" {
			c.version = version
		}
	}
}

// NewClient constructs a client for the server at baseURL (scheme, host and
// optional port). The requester supplies timeouts and failure logging.
func NewClient(baseURL, token string, requester *httpapi.Requester, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:     strings.TrimSpace(token),
		clientID:  uuid.NewString(),
		product:   defaultProduct,
		version:   defaultVersion,
		requester: requester,
		logger:    logging.NewComponentLogger(logger, "plex"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.requester == nil {
		c.requester = httpapi.New(logger)
	}
	return c
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSections returns the library sections available on the server.
func (c *Client) ListSections(ctx context.Context) ([]Section, bool) {
	var container sectionsContainer
	if !c.getXML(ctx, "/library/sections", &container) {
		return nil, false
	}
	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		section, ok := dir.section()
		if !ok {
			c.logger.Debug("skipping section with non-numeric key",
				logging.ItemKey(dir.Key),
				logging.Title(dir.Title),
			)
			continue
		}
		sections = append(sections, section)
	}
	return sections, true
}

// AllLeaves returns every leaf item of a section together with the
// container's view group.
func (c *Client) AllLeaves(ctx context.Context, sectionID int) (Leaves, bool) {
	var container leavesContainer
	if !c.getXML(ctx, fmt.Sprintf("/library/sections/%d/allLeaves", sectionID), &container) {
		return Leaves{}, false
	}
	leaves := Leaves{
		MediaType: strings.ToLower(strings.TrimSpace(container.ViewGroup)),
		Title:     container.Title,
		Entries:   make([]Entry, 0, len(container.Videos)+len(container.Tracks)),
	}
	for _, item := range container.Videos {
		leaves.Entries = append(leaves.Entries, item.entry())
	}
	for _, item := range container.Tracks {
		leaves.Entries = append(leaves.Entries, item.entry())
	}
	return leaves, true
}

// DeleteItem removes the item addressed by key (for example
// "/library/metadata/42") and reports whether the server confirmed it.
func (c *Client) DeleteItem(ctx context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	_, ok := c.requester.Delete(ctx, c.baseURL+key, c.headers())
	return ok
}

// Identity returns the server's machine identifier and version.
func (c *Client) Identity(ctx context.Context) (Identity, bool) {
	var container identityContainer
	if !c.getXML(ctx, "/identity", &container) {
		return Identity{}, false
	}
	return Identity{MachineIdentifier: container.MachineIdentifier, Version: container.Version}, true
}

func (c *Client) getXML(ctx context.Context, path string, out any) bool {
	resp, ok := c.requester.Get(ctx, c.baseURL+path, c.headers())
	if !ok {
		return false
	}
	if err := xml.NewDecoder(bytes.NewReader(resp.Body)).Decode(out); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "plex response not decodable", "plex_decode_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.Hint("check that the address points at a Plex Media Server"),
			logging.Impact("response ignored"),
		)
		return false
	}
	return true
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"X-Plex-Token":             c.token,
		"Accept":                   "application/xml",
		"X-Plex-Client-Identifier": c.clientID,
		"X-Plex-Product":           c.product,
		"X-Plex-Version":           c.version,
		"User-Agent":               c.product + "/" + c.version,
	}
}
