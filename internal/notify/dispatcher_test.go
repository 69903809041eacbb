package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"playgate/internal/notify"
)

func TestNewDispatcher_NoopWhenUnconfigured(t *testing.T) {
	cases := []struct {
		name string
		cfg  notify.Config
	}{
		{"no experience", notify.Config{APIURL: "https://api.example.com"}},
		{"no api url", notify.Config{ExperienceID: "exp_123"}},
		{"blank experience", notify.Config{APIURL: "https://api.example.com", ExperienceID: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := notify.NewDispatcher(tc.cfg)
			if err := d.NotifyPlayPublished(context.Background(), "Duke -9.5"); err != nil {
				t.Errorf("noop dispatcher should never error, got %v", err)
			}
		})
	}
}

func TestNotifyPlayPublished_SendsPayload(t *testing.T) {
	type payload struct {
		ExperienceID string `json:"experience_id"`
		Title        string `json:"title"`
		Subtitle     string `json:"subtitle"`
		Content      string `json:"content"`
	}

	var got payload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notifications" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := notify.NewDispatcher(notify.Config{
		APIURL:       srv.URL,
		APIKey:       "key_abc",
		ExperienceID: "exp_123",
	})

	if err := d.NotifyPlayPublished(context.Background(), "Duke -9.5"); err != nil {
		t.Fatalf("NotifyPlayPublished: %v", err)
	}

	if auth != "Bearer key_abc" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if got.ExperienceID != "exp_123" {
		t.Errorf("experience_id: got %q", got.ExperienceID)
	}
	if got.Subtitle != "Duke -9.5" {
		t.Errorf("subtitle: got %q", got.Subtitle)
	}
	if got.Title == "" || got.Content == "" {
		t.Errorf("expected fixed title and content, got %+v", got)
	}
}

func TestNotifyPlayPublished_ErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := notify.NewDispatcher(notify.Config{
		APIURL:       srv.URL,
		ExperienceID: "exp_123",
	})

	if err := d.NotifyPlayPublished(context.Background(), "t"); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}
