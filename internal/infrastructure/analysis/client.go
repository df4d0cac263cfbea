package analysis

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/ports"
)

// Client talks to the rule engine over its JSON API. It performs exactly one
// request per call: no retries and no timeout beyond the http.Client's own.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = domain.DefaultBackendBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the normalized backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze posts req to {baseURL}/analyze and returns the normalized rows.
func (c *Client) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.AnalysisResultRow, error) {
	requestBody, err := encodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+domain.AnalyzePath, bytes.NewReader(requestBody))
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	_, readErr := responseBody.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transportErr := &domain.TransportError{StatusCode: resp.StatusCode}
		if readErr == nil {
			transportErr.Body = responseBody.String()
		}
		return nil, transportErr
	}
	if readErr != nil {
		return nil, &domain.NetworkError{Err: readErr}
	}

	rows, err := decodeResponse(responseBody.Bytes())
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	return rows, nil
}

// Health probes {baseURL}/health.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+domain.HealthPath, nil)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &domain.TransportError{StatusCode: resp.StatusCode}
	}
	return nil
}

var (
	_ ports.AnalysisClient = (*Client)(nil)
	_ ports.HealthProber   = (*Client)(nil)
)
