// Package scan extracts structured slip details from an uploaded image
// using a vision-capable model API.  The extraction is purely advisory:
// it prefills the admin publish form and is never required for a publish
// to succeed.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"playgate/internal/playgate/types"
)

const apiVersion = "2023-06-01"

const extractionPrompt = `Analyze this bet slip screenshot. Extract the following information and return ONLY a JSON object with no markdown or extra text:

{
  "title": "Short title for this play (e.g. 'Duke -9.5' or 'Celtics ML')",
  "matchup": "The matchup in 'Away @ Home' format",
  "betType": "The bet type (e.g. 'Alternate Spread', 'Moneyline', 'Player Prop')",
  "odds": "American odds as a string (e.g. '-110', '+150'). For parlays, use the total parlay odds.",
  "gameTime": "Game time if visible, in 'YYYY-MM-DDTHH:MM' format. If not clearly visible, leave empty string.",
  "description": "2-3 sentence analysis of why this is a strong play, in a confident insider tone. Start with the key stat or angle."
}

Return ONLY valid JSON, no backticks or explanation.`

type Config struct {
	APIURL         string // base URL of the messages API
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// Client calls the model API.  Construction fails when no API key is
// configured; the server simply leaves the scan endpoint unwired then.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("scan api key required")
	}
	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		return nil, errors.New("scan api url required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, errors.New("scan model required")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		endpoint: strings.TrimRight(apiURL, "/") + "/v1/messages",
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

// Scan sends the slip image to the model and parses its JSON reply.
func (c *Client) Scan(ctx context.Context, imageBase64 string) (types.ScanResult, error) {
	data, mediaType := splitDataURL(imageBase64)
	if strings.TrimSpace(data) == "" {
		return types.ScanResult{}, errors.New("no image provided")
	}

	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: 1000,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{Type: "base64", MediaType: mediaType, Data: data}},
				{Type: "text", Text: extractionPrompt},
			},
		}},
	}

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return types.ScanResult{}, fmt.Errorf("encode scan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return types.ScanResult{}, fmt.Errorf("build scan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return types.ScanResult{}, fmt.Errorf("scan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return types.ScanResult{}, fmt.Errorf("scan API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return types.ScanResult{}, fmt.Errorf("decode scan response: %w", err)
	}

	var parts []string
	for _, block := range decoded.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	reply := strings.Join(parts, "\n")

	var result types.ScanResult
	if err := json.Unmarshal([]byte(stripFences(reply)), &result); err != nil {
		return types.ScanResult{}, fmt.Errorf("parse extraction: %w", err)
	}
	return result, nil
}

// splitDataURL strips a data URL prefix from the payload and infers the
// media type from it.  Bare base64 defaults to JPEG.
func splitDataURL(image string) (data, mediaType string) {
	image = strings.TrimSpace(image)
	mediaType = "image/jpeg"
	if strings.HasPrefix(image, "data:image/png") {
		mediaType = "image/png"
	}
	if strings.HasPrefix(image, "data:") {
		if i := strings.Index(image, ","); i >= 0 {
			return image[i+1:], mediaType
		}
	}
	return image, mediaType
}

// stripFences removes markdown code fences some models wrap around JSON
// despite being told not to.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
