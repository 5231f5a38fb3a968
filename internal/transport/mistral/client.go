package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docpipe/internal/domain"
	"github.com/kailas-cloud/docpipe/internal/metrics"
)

// Client runs document-understanding OCR through the Mistral API.
// A document goes through three calls: upload the file, obtain a
// short-lived signed URL for it, then submit the URL for OCR.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  *zap.Logger
}

// Config holds the OCR provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a Mistral OCR client.
func NewClient(cfg *Config) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  cfg.Logger,
	}
}

type uploadResponse struct {
	ID string `json:"id"`
}

type signedURLResponse struct {
	URL string `json:"url"`
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

// Process implements extractor.OCRClient. Returns one markdown segment per
// document page. All failures wrap domain.ErrOCRProviderError.
func (c *Client) Process(ctx context.Context, data []byte) ([]string, error) {
	start := time.Now()

	pages, err := c.process(ctx, data)

	duration := time.Since(start)

	if err != nil {
		metrics.OCRRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrOCRProviderError, err)
	}

	metrics.OCRRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.OCRRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	return pages, nil
}

func (c *Client) process(ctx context.Context, data []byte) ([]string, error) {
	fileID, err := c.upload(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	signedURL, err := c.signedURL(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("signed url for %s: %w", fileID, err)
	}

	pages, err := c.ocr(ctx, signedURL)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	return pages, nil
}

func (c *Client) upload(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("purpose", "ocr"); err != nil {
		return "", fmt.Errorf("write purpose field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", "document")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("write file field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	var resp uploadResponse
	if err := c.call(ctx, http.MethodPost, "/v1/files", mw.FormDataContentType(), &buf, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("upload response has no file id")
	}
	return resp.ID, nil
}

func (c *Client) signedURL(ctx context.Context, fileID string) (string, error) {
	var resp signedURLResponse
	path := fmt.Sprintf("/v1/files/%s/url?expiry=1", fileID)
	if err := c.call(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("signed url response has no url")
	}
	return resp.URL, nil
}

func (c *Client) ocr(ctx context.Context, documentURL string) ([]string, error) {
	body, err := json.Marshal(ocrRequest{
		Model: c.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ocr request: %w", err)
	}

	var resp ocrResponse
	if err := c.call(ctx, http.MethodPost, "/v1/ocr", "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		pages = append(pages, p.Markdown)
	}
	return pages, nil
}

// call performs an authenticated API request and decodes the JSON response.
func (c *Client) call(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
