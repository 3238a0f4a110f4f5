package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const reprocessPath = "/admin/reprocess-images"

type reprocessResult struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type reprocessSummary struct {
	Message   string            `json:"message"`
	Total     int               `json:"total"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Results   []reprocessResult `json:"results"`
}

type adminClient struct {
	baseURL string
	secret  string
	http    *http.Client
}

func newAdminClient(baseURL, secret string, hc *http.Client) *adminClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &adminClient{baseURL: strings.TrimRight(baseURL, "/"), secret: secret, http: hc}
}

func (c *adminClient) ReprocessImages(ctx context.Context) (*reprocessSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reprocessPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("admin API returned %d: %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("admin API returned %d", resp.StatusCode)
	}

	var s reprocessSummary
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}
