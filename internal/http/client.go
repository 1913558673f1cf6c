// Package http implements the transport layer: session management, rate
// limiting, auth retry, and page decoding for the Follow Up Boss API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/realworks-io/fub-client/pkg/fub"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.followupboss.com/v1"

const defaultUserAgent = "fub-client-go"

// File is one multipart upload part.
type File struct {
	FieldName string
	FileName  string
	Data      []byte
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    interface{}
	Files   []File
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the HTTP transport. Every request passes through the rate
// limiter, the auth retry policy, and the session manager, in that order.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	headers   map[string]string

	session      *SessionManager
	limiter      *rateLimiter
	retry        *RetryPolicy
	interceptors *fub.InterceptorChain
	logger       fub.Logger
}

// NewClient creates a transport from a validated configuration.
func NewClient(cfg *fub.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	logger := cfg.Logger
	if logger == nil {
		logger = fub.NoopLogger{}
	}

	session := NewSessionManager(SessionConfig{
		Timeout:      cfg.Timeout,
		PoolSize:     cfg.PoolSize,
		RetryMax:     cfg.TransportRetryMax,
		RetryWaitMin: cfg.RetryWaitMin,
		RetryWaitMax: cfg.RetryWaitMax,
		Logger:       logger,
	})

	headers := make(map[string]string)
	if cfg.XSystem != "" {
		headers["X-System"] = cfg.XSystem
	}

	if cfg.XSystemKey != "" {
		headers["X-System-Key"] = cfg.XSystemKey
	}

	for name, value := range cfg.CustomHeaders {
		if fub.IsProtectedHeader(name) {
			logger.Warn("ignoring protected custom header", map[string]interface{}{
				"header": name,
			})

			continue
		}

		headers[name] = value
	}

	interceptors := fub.NewInterceptorChain()
	if cfg.Debug {
		interceptors.AddRequestInterceptor(fub.LoggingInterceptor(logger))
		interceptors.AddResponseInterceptor(fub.LoggingResponseInterceptor(logger))
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       cfg.APIKey,
		userAgent:    userAgent,
		headers:      headers,
		session:      session,
		limiter:      newRateLimiter(cfg.MinRequestInterval),
		retry:        NewRetryPolicy(cfg.MaxRetries, cfg.BackoffFactor, session, logger),
		interceptors: interceptors,
		logger:       logger,
	}, nil
}

// Session exposes the session manager for stats and shutdown.
func (c *Client) Session() *SessionManager {
	return c.session
}

// Do executes a request through the full middleware chain.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	intercepted := &fub.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: req.Headers,
	}
	if err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted); err != nil {
		return nil, err
	}

	req.Headers = intercepted.Headers

	resp, err := c.retry.Do(ctx, func() (*Response, error) {
		return c.doOnce(ctx, req)
	})

	interceptedResp := &fub.Response{Error: err}
	if resp != nil {
		interceptedResp.StatusCode = resp.StatusCode
		interceptedResp.Headers = resp.Headers
		interceptedResp.Body = resp.Body
	}

	if interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, interceptedResp); interceptErr != nil {
		return resp, interceptErr
	}

	return resp, err
}

// doOnce performs exactly one HTTP round trip.
func (c *Client) doOnce(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	client, err := c.session.Acquire()
	if err != nil {
		return nil, err
	}

	c.session.RecordRequest()
	requestsTotal.WithLabelValues(req.Method).Inc()

	start := time.Now()

	httpResp, err := client.Do(httpReq)

	requestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	if err != nil {
		c.session.RecordError()
		errorsTotal.WithLabelValues(string(fub.KindGeneric)).Inc()

		return nil, fub.Classify(0, fmt.Sprintf("request failed: %v", err), nil)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.session.RecordError()

		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if httpResp.StatusCode >= 400 {
		c.session.RecordError()

		apiErr := c.classifyResponse(req, resp)
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()

		return resp, apiErr
	}

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	target := req.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	}

	if len(req.Query) > 0 {
		parsed, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("parsing request URL: %w", err)
		}

		query := parsed.Query()
		for key, values := range req.Query {
			query[key] = values
		}

		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case len(req.Files) > 0:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)

		for _, file := range req.Files {
			part, err := writer.CreateFormFile(file.FieldName, file.FileName)
			if err != nil {
				return nil, fmt.Errorf("creating multipart field %s: %w", file.FieldName, err)
			}

			if _, err := part.Write(file.Data); err != nil {
				return nil, fmt.Errorf("writing multipart field %s: %w", file.FieldName, err)
			}
		}

		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("finalizing multipart body: %w", err)
		}

		body = buf
		contentType = writer.FormDataContentType()
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.SetBasicAuth(c.apiKey, "")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for name, value := range c.headers {
		httpReq.Header.Set(name, value)
	}

	for name, values := range req.Headers {
		if fub.IsProtectedHeader(name) {
			continue
		}

		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	return httpReq, nil
}

// classifyResponse turns an error response into an APIError, flattening the
// API's error body and appending endpoint-specific guidance.
func (c *Client) classifyResponse(req *Request, resp *Response) *fub.APIError {
	message := http.StatusText(resp.StatusCode)

	var errorBody map[string]interface{}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &errorBody); err == nil {
			if title, ok := errorBody["title"].(string); ok && title != "" {
				message = title
			}

			if details := flattenErrorDetails(errorBody); details != "" {
				message += ": " + details
			}
		} else {
			message = strings.TrimSpace(string(resp.Body))
		}
	}

	bodyMap, _ := req.Body.(map[string]interface{})
	message = fub.EnhanceErrorMessage(message, req.Path, bodyMap)

	return fub.Classify(resp.StatusCode, message, errorBody)
}

func flattenErrorDetails(body map[string]interface{}) string {
	raw, ok := body["errors"].([]interface{})
	if !ok {
		return ""
	}

	details := make([]string, 0, len(raw))

	for _, entry := range raw {
		if m, ok := entry.(map[string]interface{}); ok {
			if detail, ok := m["detail"].(string); ok && detail != "" {
				details = append(details, detail)
			}
		}
	}

	return strings.Join(details, "; ")
}

// GetPage fetches one page for a pagination endpoint. The endpoint may be a
// path ("people") or an absolute nextLink URL. The decoded body is merged
// with rate-limit and link metadata from the response headers.
func (c *Client) GetPage(ctx context.Context, endpoint string, params url.Values) (fub.Page, error) {
	resp, err := c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   endpoint,
		Query:  params,
	})
	if err != nil {
		return nil, err
	}

	return decodePage(resp)
}

// GetItem fetches a single resource.
func (c *Client) GetItem(ctx context.Context, path string) (fub.Item, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}

	return decodeItem(resp)
}

// PostItem creates a resource.
func (c *Client) PostItem(ctx context.Context, path string, body map[string]interface{}) (fub.Item, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}

	return decodeItem(resp)
}

// PutItem updates a resource.
func (c *Client) PutItem(ctx context.Context, path string, body map[string]interface{}) (fub.Item, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
	if err != nil {
		return nil, err
	}

	return decodeItem(resp)
}

// Delete removes a resource. A 204 response is success.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})

	return err
}

// PostFile uploads a multipart attachment.
func (c *Client) PostFile(ctx context.Context, path string, files []File) (fub.Item, error) {
	resp, err := c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Files: files})
	if err != nil {
		return nil, err
	}

	return decodeItem(resp)
}

func decodeItem(resp *Response) (fub.Item, error) {
	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		return nil, fub.ErrNoContent
	}

	var item map[string]interface{}
	if err := json.Unmarshal(resp.Body, &item); err != nil {
		// Successful responses are not guaranteed to carry a JSON object;
		// a non-object body decodes as an empty item.
		return fub.Item{}, nil
	}

	return fub.Item(item), nil
}

// decodePage decodes a response body and folds in the rate-limit headers and
// Link-header pagination metadata. Keys already present in the body are
// never overwritten. A successful response whose body is not a JSON object
// (an array, a scalar) decodes as an empty page carrying only the header
// metadata.
func decodePage(resp *Response) (fub.Page, error) {
	page := fub.Page{}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, (*map[string]interface{})(&page)); err != nil {
			page = fub.Page{}
		}
	}

	if info := rateLimitFromHeaders(resp.Headers); info != nil {
		if _, exists := page[fub.RateLimitKey]; !exists {
			page[fub.RateLimitKey] = info
		}
	}

	next, prev := ParseLinkHeader(resp.Headers.Get("Link"))
	if next != "" || prev != "" {
		meta, ok := page[fub.MetadataKey].(map[string]interface{})
		if !ok {
			meta = map[string]interface{}{}
			page[fub.MetadataKey] = meta
		}

		if _, exists := meta["nextLink"]; !exists && next != "" {
			meta["nextLink"] = next
		}

		if _, exists := meta["prevLink"]; !exists && prev != "" {
			meta["prevLink"] = prev
		}
	}

	return page, nil
}

func rateLimitFromHeaders(headers http.Header) map[string]interface{} {
	limit := headers.Get("X-RateLimit-Limit")
	remaining := headers.Get("X-RateLimit-Remaining")
	reset := headers.Get("X-RateLimit-Reset")

	if limit == "" && remaining == "" && reset == "" {
		return nil
	}

	info := map[string]interface{}{}
	if limit != "" {
		info["limit"] = limit
	}

	if remaining != "" {
		info["remaining"] = remaining
	}

	if reset != "" {
		info["reset"] = reset
	}

	return info
}

// Compile-time check that the transport satisfies the pagination contract.
var _ fub.PageSource = (*Client)(nil)
