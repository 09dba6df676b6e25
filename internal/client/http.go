package client

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultConnectTimeout = 3050 * time.Millisecond
	DefaultReadTimeout    = 27 * time.Second
	defaultUserAgent      = "devsalary/1.0 (vacancy statistics)"
)

// Options configures the HTTP transport used by all sources
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	ProxyURL       string
	UserAgent      string
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
}

// TransportError is returned for network failures, timeouts, non-2xx
// statuses and undecodable bodies
type TransportError struct {
	Source string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: request %s failed with status %d: %v", e.Source, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: request %s failed: %v", e.Source, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client executes API requests for the sources
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a Client from options, filling in defaults
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	c := &Client{
		http:      CreateProxyHTTPClient(opts.ProxyURL, opts.ConnectTimeout, opts.ReadTimeout),
		userAgent: opts.UserAgent,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// CreateProxyHTTPClient creates an HTTP client with proxy support
func CreateProxyHTTPClient(proxyURL string, connectTimeout, readTimeout time.Duration) *http.Client {
	if proxyURL == "" {
		return CreateHTTPClient(connectTimeout, readTimeout)
	}

	proxy, err := url.Parse(proxyURL)
	if err != nil {
		return CreateHTTPClient(connectTimeout, readTimeout)
	}

	httpClient := CreateHTTPClient(connectTimeout, readTimeout)
	httpClient.Transport.(*http.Transport).Proxy = http.ProxyURL(proxy)
	return httpClient
}

// CreateHTTPClient creates a client with a bounded connect phase and a longer read phase
func CreateHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   connectTimeout + readTimeout,
	}
}

// GetJSON performs a GET request and parses the JSON body
func (c *Client) GetJSON(ctx context.Context, source, endpoint string, query url.Values, headers http.Header) (gjson.Result, error) {
	fullURL := endpoint
	if len(query) > 0 {
		fullURL = endpoint + "?" + query.Encode()
	}

	fail := func(status int, err error) (gjson.Result, error) {
		return gjson.Result{}, &TransportError{Source: source, URL: fullURL, Status: status, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range APIHeaders(c.userAgent) {
		req.Header[key] = values
	}
	for key, values := range headers {
		req.Header[key] = values
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	body, err := ReadResponseBody(resp)
	if err != nil {
		return fail(resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, fmt.Errorf("received non-2xx status code: %s", http.StatusText(resp.StatusCode)))
	}

	if !gjson.ValidBytes(body) {
		return fail(resp.StatusCode, fmt.Errorf("response is not valid JSON"))
	}

	return gjson.ParseBytes(body), nil
}

// APIHeaders returns the headers sent with every API request
func APIHeaders(userAgent string) http.Header {
	headers := http.Header{}
	headers.Set("User-Agent", userAgent)
	// hh.ru rejects requests without its own user agent header
	headers.Set("HH-User-Agent", userAgent)
	headers.Set("Accept", "application/json")
	headers.Set("Accept-Encoding", "gzip")
	return headers
}

// ReadResponseBody reads the response body, handling gzip compression if necessary
func ReadResponseBody(resp *http.Response) ([]byte, error) {
	var reader io.ReadCloser
	var err error

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	return io.ReadAll(reader)
}
