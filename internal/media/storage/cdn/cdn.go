package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/meryemgkrt/food-ordering/internal/media/storage"
	"github.com/meryemgkrt/food-ordering/pkg/httpclient"
)

// Config holds the CDN client configuration.
type Config struct {
	// UploadURL is the endpoint that accepts multipart uploads.
	UploadURL string

	// APIKey is sent as a bearer token when set.
	APIKey string
}

// Client implements storage.Storage against an HTTP image CDN. Requests go
// through a circuit-breaker client so a degraded CDN cannot pile up goroutines.
type Client struct {
	http *httpclient.CircuitBreakerClient
	cfg  Config
}

// New creates a new CDN storage client.
func New(http *httpclient.CircuitBreakerClient, cfg Config) *Client {
	return &Client{
		http: http,
		cfg:  cfg,
	}
}

// uploadResponse is the JSON body the CDN returns on a successful upload.
type uploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Upload posts the file as multipart/form-data and returns the public URL.
// The caller has already capped the size, so buffering the body in memory is
// bounded; a buffered body also keeps the request retryable.
func (c *Client) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("key", input.Key); err != nil {
		return nil, fmt.Errorf("write key field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sanitizeFileName(input.FileName)))
	header.Set("Content-Type", input.ContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, input.Data); err != nil {
		return nil, fmt.Errorf("copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload to cdn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("cdn upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode cdn response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("cdn response missing url")
	}
	if result.Key == "" {
		result.Key = input.Key
	}

	return &storage.UploadResult{Key: result.Key, URL: result.URL}, nil
}

// Delete removes a previously uploaded file from the CDN.
func (c *Client) Delete(ctx context.Context, key string) error {
	url := strings.TrimSuffix(c.cfg.UploadURL, "/") + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("delete from cdn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cdn delete failed with status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

// sanitizeFileName strips path separators and quotes from client-supplied
// file names before they are embedded in a multipart header.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.ReplaceAll(name, `"`, "")
}
