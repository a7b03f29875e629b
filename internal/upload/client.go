// Package upload calls the hosted file storage collaborator: a multipart
// POST of the captured image that returns the URL the stored file is
// served from.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
)

// ErrFileTooLarge is returned before any bytes leave the process.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

type uploadResponse struct {
	FileURL string `json:"file_url"`
}

type Client struct {
	baseURL      string
	apiKey       string
	maxFileBytes int64
	http         *http.Client
	log          *zap.Logger
}

func NewClient(cfg config.UploadConfig, log *zap.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		maxFileBytes: cfg.MaxFileBytes,
		http:         &http.Client{Timeout: cfg.Timeout},
		log:          log,
	}
}

// Upload streams the file to the collaborator and returns the issued URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
	if c.maxFileBytes > 0 && size > c.maxFileBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, c.maxFileBytes)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/files", &body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api_key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling upload collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload collaborator returned status %d: %s", resp.StatusCode, msg)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.FileURL == "" {
		return "", fmt.Errorf("upload collaborator returned no file URL")
	}

	c.log.Debug("file uploaded", zap.String("filename", filename), zap.Int64("bytes", size))
	return out.FileURL, nil
}
