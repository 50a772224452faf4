package imagestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"crowdfund-service/domain/model"
	"crowdfund-service/domain/repository"
	"crowdfund-service/infrastructure/logger"

	"github.com/google/go-querystring/query"
)

type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Timeout   time.Duration
}

// Cloudinary uploads images with signed requests to the Cloudinary REST API.
type Cloudinary struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

func NewCloudinary(cfg Config) repository.IImageStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cloudinary.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Cloudinary{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// signedParams are the upload parameters covered by the signature.
type signedParams struct {
	Folder    string `url:"folder,omitempty"`
	Timestamp int64  `url:"timestamp"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Cloudinary) Upload(ctx context.Context, localPath string) (*model.UploadedImage, error) {
	if localPath == "" {
		return nil, nil
	}
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", localPath, err)
	}
	defer f.Close()

	params := signedParams{Folder: c.cfg.Folder, Timestamp: c.now().Unix()}
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encode upload params: %w", err)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for key := range values {
		if err := w.WriteField(key, values.Get(key)); err != nil {
			return nil, err
		}
	}
	if err := w.WriteField("api_key", c.cfg.APIKey); err != nil {
		return nil, err
	}
	if err := w.WriteField("signature", Sign(values, c.cfg.APISecret)); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read upload %s: %w", localPath, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: image upload request: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read image upload response: %v", model.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		logger.GetLogger().
			WithField("status", resp.StatusCode).
			WithField("message", e.Error.Message).
			Error("Image upload rejected")
		return nil, fmt.Errorf("%w: image upload status %d: %s", model.ErrUpstream, resp.StatusCode, e.Error.Message)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var image model.UploadedImage
	if err := json.Unmarshal(raw, &image); err != nil {
		return nil, fmt.Errorf("%w: decode image upload response: %v", model.ErrUpstream, err)
	}
	logger.GetLogger().WithField("public_id", image.PublicID).Info("Image uploaded")
	return &image, nil
}

// Sign computes the Cloudinary request signature: the parameters sorted by
// name, joined as k=v pairs with '&', followed by the secret, hashed with SHA-1.
func Sign(values map[string][]string, secret string) string {
	keys := make([]string, 0, len(values))
	for k, v := range values {
		if len(v) == 0 || v[0] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values[k][0])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Disabled is used when no image host credentials are configured; every
// upload yields no image.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, localPath string) (*model.UploadedImage, error) {
	logger.GetLogger().WithField("path", localPath).Warn("Image store not configured, skipping upload")
	return nil, nil
}
