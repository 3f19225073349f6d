// Package appstore fetches daily sales reports from the App Store Connect
// reporting API.
package appstore

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/crimson-sun/tally/internal/model"
)

const defaultEndpoint = "https://api.appstoreconnect.apple.com"

const salesReportsPath = "/v1/salesReports"

// TokenIssuer signs a fresh bearer token per request. Tokens expire after
// 20 minutes, so the client never caches one across fetches.
type TokenIssuer interface {
	Issue(now time.Time) (string, error)
}

// FetchError represents a non-200, non-404 API response.
type FetchError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("sales report fetch: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithEndpoint overrides the API base URL.
func WithEndpoint(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// Client is an HTTP client for the salesReports endpoint.
type Client struct {
	baseURL    string
	issuer     TokenIssuer
	httpClient *http.Client
	now        func() time.Time
}

// New creates a Client that signs each request with a fresh token.
func New(issuer TokenIssuer, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultEndpoint,
		issuer:  issuer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDaily requests the DAILY/SUMMARY/SALES report for a vendor and date
// (YYYY-MM-DD). A 200 response is gunzipped and returned as a RawReport.
// A 404 means the report does not exist (yet) and returns (nil, nil) — not
// an error, recent dates legitimately have no report. Any other status
// returns *FetchError with the status and response body.
//
// The call is single-shot: no internal retries. A failed fetch is retried,
// if at all, by the caller on a later run.
func (c *Client) FetchDaily(ctx context.Context, vendorNumber, reportDate string) (*model.RawReport, error) {
	bearer, err := c.issuer.Issue(c.now())
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("filter[frequency]", "DAILY")
	q.Set("filter[reportSubType]", "SUMMARY")
	q.Set("filter[reportType]", "SALES")
	q.Set("filter[vendorNumber]", vendorNumber)
	q.Set("filter[reportDate]", reportDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+salesReportsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/a-gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sales report fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("sales report fetch: gunzip: %w", err)
		}
		defer gz.Close()
		body, err := io.ReadAll(gz)
		if err != nil {
			return nil, fmt.Errorf("sales report fetch: gunzip: %w", err)
		}
		return &model.RawReport{Date: reportDate, Body: string(body)}, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, nil

	default:
		body, _ := io.ReadAll(resp.Body)
		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: bodyStr}
	}
}
