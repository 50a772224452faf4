package crowdfund

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"crowdfund-service/domain/dto"
	"crowdfund-service/domain/model"
)

// Client talks to the crowdfunding API the way the web front end does.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreatePost sends a multipart post with the description and, when
// imagePath is set, the image file.
func (c *Client) CreatePost(ctx context.Context, description, imagePath string) (*model.Post, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if err := w.WriteField("description", description); err != nil {
		return nil, err
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", imagePath, err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/post/new-post", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out dto.CreatePostResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

func (c *Client) Generate(ctx context.Context, prompt, language string) (string, error) {
	payload, err := json.Marshal(dto.GenerateContentRequest{Prompt: prompt, Language: language})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-content", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out dto.GenerateContentResponse
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.GeneratedText, nil
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", model.ErrUpstream, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var msg dto.Message
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return fmt.Errorf("%w: %s %s: status %d %s", model.ErrUpstream, req.Method, req.URL.Path, resp.StatusCode, msg.Msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", model.ErrUpstream, req.URL.Path, err)
	}
	return nil
}
