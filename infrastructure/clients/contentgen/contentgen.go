package contentgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"
)

// Client calls the external text generation service.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) repository.IContentGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{url: url, httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Generate(ctx context.Context, prompt, language string) (string, error) {
	payload, err := json.Marshal(dto.GenerateContentRequest{Prompt: prompt, Language: language})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: content generation request: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.GetLogger().
			WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Error("Content generation failed")
		return "", fmt.Errorf("%w: content generation status %d", model.ErrUpstream, resp.StatusCode)
	}

	var out dto.GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode content generation response: %v", model.ErrUpstream, err)
	}
	return out.GeneratedText, nil
}
