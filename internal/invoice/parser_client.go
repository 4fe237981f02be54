package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// TextExtractor turns an uploaded invoice document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, fileName string, r io.Reader) (string, error)
}

// ErrParserNotConfigured is returned when PDF intake has no parser URL.
var ErrParserNotConfigured = errors.New("invoice parser not configured")

// HTTPTextExtractor posts the document to a PDF-to-text endpoint as the
// multipart field "file" and reads {"text": "..."} back.
type HTTPTextExtractor struct {
	url        string
	httpClient *http.Client
}

// NewHTTPTextExtractor creates a client for url.
func NewHTTPTextExtractor(url string, timeout time.Duration) *HTTPTextExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTextExtractor{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type parserResponse struct {
	Success *bool  `json:"success,omitempty"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// ExtractText implements TextExtractor.
func (c *HTTPTextExtractor) ExtractText(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if c.url == "" {
		return "", ErrParserNotConfigured
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("invoice parser: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("invoice parser: read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("invoice parser: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", fmt.Errorf("invoice parser: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("invoice parser: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var out parserResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&out)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && out.Error != "" {
			return "", fmt.Errorf("invoice parser returned status %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("invoice parser returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("invoice parser: decode response: %w", decodeErr)
	}
	if (out.Success != nil && !*out.Success) || out.Text == "" {
		if out.Error != "" {
			return "", fmt.Errorf("invoice parser: %s", out.Error)
		}
		return "", errors.New("invoice parser: no text extracted")
	}
	return out.Text, nil
}
