package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/dossier/internal/errors"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// HTMXHeader marks a request as issued by htmx.
const HTMXHeader = "HX-Request"

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar so that sessions and CSRF cookies survive between requests.
func NewClient(url string) (*Client, error) {
	jar, err := newCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine for tests.
		url:    url,
	}, nil
}

// URL returns the base URL the client talks to.
func (c *Client) URL() string {
	return c.url
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// GetJSON fetches a URL and decodes the JSON response into v. It returns the response status code.
func (c *Client) GetJSON(ctx context.Context, urlPath string, v any) (int, error) {
	return c.doJSON(ctx, http.MethodGet, urlPath, nil, v)
}

// PostJSON posts body as JSON and decodes the JSON response into v. It returns the response status code.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any, v any) (int, error) {
	return c.doJSON(ctx, http.MethodPost, urlPath, body, v)
}

// PutJSON puts body as JSON and decodes the JSON response into v. It returns the response status code.
func (c *Client) PutJSON(ctx context.Context, urlPath string, body any, v any) (int, error) {
	return c.doJSON(ctx, http.MethodPut, urlPath, body, v)
}

// Delete sends a DELETE request and returns the response status code. The body is discarded.
func (c *Client) Delete(ctx context.Context, urlPath string) (int, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodDelete, urlPath, nil); err != nil {
		return 0, errors.Wrap(err, "new request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return 0, errors.Wrap(err, "do request")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) doJSON(ctx context.Context, method, urlPath string, body any, v any) (int, error) {
	var (
		err    error
		req    *http.Request
		resp   *http.Response
		reader io.Reader
	)
	if body != nil {
		var b []byte
		if b, err = json.Marshal(body); err != nil {
			return 0, errors.Wrap(err, "marshal body")
		}
		reader = bytes.NewReader(b)
	}
	if req, err = c.newRequestWithContext(ctx, method, urlPath, reader); err != nil {
		return 0, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if resp, err = c.client.Do(req); err != nil {
		return 0, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, errors.Wrap(err, "decode response", slog.Int("status", resp.StatusCode))
	}
	return resp.StatusCode, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = http.NewRequest(method, c.url+urlPath, body); err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req.WithContext(ctx), nil
}

func (c *Client) extractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	if form.Length() == 0 {
		return "", errors.New("form not found", slog.String("selector", formSelector))
	}
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}
	return csrfToken, nil
}

// SubmitForm submits the form with action formActionURLPath found at formURLPath together with fields and
// returns the document the server answers with after redirects.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	fields neturl.Values,
) (*goquery.Document, error) {
	resp, err := c.submitForm(ctx, formURLPath, formActionURLPath, fields, false)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}

	var doc *goquery.Document
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// SubmitFormResponse is SubmitForm returning the raw response whatever its status. The caller must close
// the response body.
func (c *Client) SubmitFormResponse(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	fields neturl.Values,
) (*http.Response, error) {
	return c.submitForm(ctx, formURLPath, formActionURLPath, fields, false)
}

// SubmitFormHTMX is SubmitForm marked as an htmx request. The raw response is returned so that callers
// can inspect the partial and its headers. The caller must close the response body.
func (c *Client) SubmitFormHTMX(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	fields neturl.Values,
) (*http.Response, error) {
	return c.submitForm(ctx, formURLPath, formActionURLPath, fields, true)
}

func (c *Client) submitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	fields neturl.Values,
	htmx bool,
) (*http.Response, error) {
	var (
		doc *goquery.Document
		err error
	)
	if doc, err = c.GetDoc(ctx, formURLPath); err != nil {
		return nil, errors.Wrap(err, "get document")
	}

	// Extract CSRF token from the form.
	var csrfToken string
	if csrfToken, err = c.extractCSRFToken(doc, formActionURLPath); err != nil {
		return nil, errors.Wrap(err, "extract CSRF token")
	}

	// Build form data
	formData := neturl.Values{}
	for key, values := range fields {
		formData[key] = values
	}
	formData.Set("csrf_token", csrfToken)
	data := strings.NewReader(formData.Encode())

	// Submit the form
	var req *http.Request
	if req, err = c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath, data); err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set(HTMXHeader, "true")
	}
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}
