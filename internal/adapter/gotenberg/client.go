// Package gotenberg provides an HTTP client for a Gotenberg-compatible
// DOCX to PDF conversion service.
package gotenberg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/domain"
	"github.com/docforge/docforge/internal/resilience"
)

const convertPath = "/forms/libreoffice/convert"

// Client talks to the conversion service. All calls go through the circuit
// breaker; when the converter is down the breaker keeps generation fast by
// failing PDF conversion immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a converter client from config.
func NewClient(cfg config.Converter) *Client {
	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: resilience.NewBreaker(cfg.MaxFailures, cfg.OpenFor),
	}
}

// Convert sends a rendered DOCX and returns PDF bytes. Failures wrap
// domain.ErrConversion so callers can degrade to DOCX-only output.
func (c *Client) Convert(ctx context.Context, docxBytes []byte) ([]byte, error) {
	var pdf []byte
	err := c.breaker.Execute(func() error {
		var callErr error
		pdf, callErr = c.convert(ctx, docxBytes)
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConversion, err)
	}
	return pdf, nil
}

func (c *Client) convert(ctx context.Context, docxBytes []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", "document.docx")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(docxBytes); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+convertPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("converter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("converter returned %d: %s", resp.StatusCode, body)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("converter returned empty body")
	}
	return pdf, nil
}

// Health checks whether the conversion service is reachable.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
