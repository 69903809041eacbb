// Package notify delivers push notifications through the commerce
// platform's notification API.
//
// The dispatcher is strictly best-effort: it is invoked after a play has
// already been published, failures are logged by the caller and never
// retried, and a no-op implementation is returned when no audience is
// configured so publish paths never need to branch.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const userAgent = "playgate/0.1"

// Dispatcher is the notification surface exposed to the play service.
type Dispatcher interface {
	NotifyPlayPublished(ctx context.Context, playTitle string) error
}

type Config struct {
	APIURL         string // base URL of the notification API
	APIKey         string
	ExperienceID   string // audience identifier; empty disables dispatch
	RequestTimeout time.Duration
}

// NewDispatcher builds a dispatcher backed by the platform API when an
// audience is configured, and a noop implementation otherwise.
func NewDispatcher(cfg Config) Dispatcher {
	experienceID := strings.TrimSpace(cfg.ExperienceID)
	apiURL := strings.TrimSpace(cfg.APIURL)
	if experienceID == "" || apiURL == "" {
		return noopDispatcher{}
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &apiDispatcher{
		endpoint:     strings.TrimRight(apiURL, "/") + "/notifications",
		apiKey:       cfg.APIKey,
		experienceID: experienceID,
		client:       &http.Client{Timeout: timeout},
	}
}

type apiDispatcher struct {
	endpoint     string
	apiKey       string
	experienceID string
	client       *http.Client
}

type notificationPayload struct {
	ExperienceID string `json:"experience_id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Content      string `json:"content"`
}

func (d *apiDispatcher) NotifyPlayPublished(ctx context.Context, playTitle string) error {
	payload := notificationPayload{
		ExperienceID: d.experienceID,
		Title:        "🔥 Max Bet Play of the Day is LIVE",
		Subtitle:     strings.TrimSpace(playTitle),
		Content:      "Today's highest-conviction pick just dropped. Unlock it before game time!",
	}
	return d.send(ctx, payload)
}

func (d *apiDispatcher) send(ctx context.Context, payload notificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notification API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopDispatcher struct{}

func (noopDispatcher) NotifyPlayPublished(context.Context, string) error { return nil }
