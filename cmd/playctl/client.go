package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"playgate/internal/playgate/types"
)

// apiClient is a thin HTTP client for the playgate server's JSON API.
type apiClient struct {
	baseURL string
	secret  string
	http    *http.Client
}

func newAPIClient(baseURL, secret string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *apiClient) GetPlay(ctx context.Context) (types.PlayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/play", nil)
	if err != nil {
		return types.PlayResponse{}, err
	}

	var resp types.PlayResponse
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return types.PlayResponse{}, err
	}
	return resp, nil
}

func (c *apiClient) Publish(ctx context.Context, play types.PublishRequest) (types.PublishResponse, error) {
	body, err := json.Marshal(play)
	if err != nil {
		return types.PublishResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/play", bytes.NewReader(body))
	if err != nil {
		return types.PublishResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", c.secret)

	var resp types.PublishResponse
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return types.PublishResponse{}, err
	}
	return resp, nil
}

func (c *apiClient) Delete(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/play", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Admin-Secret", c.secret)

	var resp types.PublishResponse
	return c.do(req, http.StatusOK, &resp)
}

func (c *apiClient) Scan(ctx context.Context, imageBase64 string) (types.ScanResult, error) {
	body, err := json.Marshal(types.ScanRequest{ImageBase64: imageBase64})
	if err != nil {
		return types.ScanResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scan", bytes.NewReader(body))
	if err != nil {
		return types.ScanResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Secret", c.secret)

	var resp types.ScanResponse
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return types.ScanResult{}, err
	}
	return resp.Data, nil
}

func (c *apiClient) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if json.Unmarshal(detail, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
