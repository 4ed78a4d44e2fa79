package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Skotchmaster/online_course/pkg/config"
)

// Client is a read-only client for the Stream management API.
type Client struct {
	cfg        config.StreamConfig
	httpClient *http.Client
}

func NewClient(cfg config.StreamConfig) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.cloudflare.com/client/v4"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

// GetVideo returns the "result" object for one video.
func (c *Client) GetVideo(ctx context.Context, videoID string) (json.RawMessage, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if videoID == "" {
		return nil, ErrInvalidVideo
	}
	return c.get(ctx, "/accounts/"+url.PathEscape(c.cfg.AccountID)+"/stream/"+url.PathEscape(videoID), msgVideoFetchFailed)
}

// ListVideos returns the "result" array as the API sends it.
func (c *Client) ListVideos(ctx context.Context) (json.RawMessage, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.get(ctx, "/accounts/"+url.PathEscape(c.cfg.AccountID)+"/stream", msgVideoListFailed)
}

func (c *Client) check() error {
	if !c.cfg.APIConfigured() {
		return &ConfigError{Message: msgAPIConfigMissing}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, failMsg string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, Message: failMsg}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Result, nil
}
