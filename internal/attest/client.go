package attest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// H is a set of request headers.
type H map[string]string

// Form is a form-encoded request body.
type Form map[string]string

// Response is the outcome of one request. Transport failures are carried in
// Err rather than returned, so they reach the test that owns the request.
type Response struct {
	Method string
	URL    string
	Status int
	Body   string
	Err    error
}

// Client issues single requests against the node under test.
type Client struct {
	http *resty.Client
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetHostURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetLogger(log)

	return &Client{http: r}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) Response {
	return c.execute(c.http.R().SetContext(ctx), http.MethodGet, path)
}

// PostForm issues a POST request with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form Form) Response {
	req := c.http.R().SetContext(ctx).SetFormData(form)
	return c.execute(req, http.MethodPost, path)
}

// Do issues a request with a raw body and headers.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, headers H) Response {
	req := c.http.R().SetContext(ctx).SetHeaders(headers)
	if body != nil {
		req.SetBody(body)
	}

	return c.execute(req, method, path)
}

func (c *Client) execute(req *resty.Request, method, path string) Response {
	res := Response{Method: method, URL: c.http.HostURL + path}

	resp, err := req.Execute(method, path)
	if err != nil {
		res.Err = err
		log.WithError(err).WithField("url", res.URL).Debug("Request failed")
		return res
	}

	res.Status = resp.StatusCode()
	res.Body = string(resp.Body())
	log.WithField("url", res.URL).WithField("status", res.Status).Debug(method)

	return res
}
