package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gojektech/heimdall/v6/httpclient"
)

// AccessTokenHeader carries the Storefront API key on every request.
const AccessTokenHeader = "X-Shopify-Storefront-Access-Token"

// Doer executes a prepared HTTP request. *httpclient.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Fetcher sends one GraphQL operation to the platform.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// Request is a GraphQL document plus optional variables and extra headers.
type Request struct {
	Query     string
	Variables map[string]any
	Headers   http.Header
}

// Response is a successful platform reply: the HTTP status and the raw "data" member.
type Response struct {
	Status int
	Data   json.RawMessage
}

// Options configures a Client.
type Options struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
	HTTP        Doer
	Metrics     *Metrics
}

// Client talks to the Storefront GraphQL endpoint.
type Client struct {
	endpoint    string
	accessToken string
	http        Doer
	logger      logr.Logger
	metrics     *Metrics
}

// New builds a Client. Without an explicit Doer it uses a heimdall client
// with the configured timeout and no retries.
func New(opts Options, logger logr.Logger) *Client {
	doer := opts.HTTP
	if doer == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		doer = httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(0),
		)
	}
	return &Client{
		endpoint:    opts.Endpoint,
		accessToken: opts.AccessToken,
		http:        doer,
		logger:      logger.WithName("shopify"),
		metrics:     opts.Metrics,
	}
}

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Fetch posts the operation and returns the decoded data member. A non-empty
// "errors" array in the reply is reported as its first entry.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	op := OperationName(req.Query)
	start := time.Now()

	resp, ferr := c.do(ctx, req)
	elapsed := time.Since(start)
	if ferr != nil {
		c.metrics.observe(op, ferr.Cause, elapsed)
		c.logger.Info("request failed", "operation", op, "cause", ferr.Cause, "status", ferr.Status, "message", ferr.Message)
		return nil, ferr
	}
	c.metrics.observe(op, "ok", elapsed)
	c.logger.V(1).Info("request done", "operation", op, "status", resp.Status, "elapsed", elapsed)
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request) (*Response, *Error) {
	payload, err := json.Marshal(requestBody{Query: req.Query, Variables: req.Variables})
	if err != nil {
		return nil, newError(CauseDecode, 0, "", req.Query, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, newError(CauseTransport, 0, "", req.Query, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(AccessTokenHeader, c.accessToken)
	for key, values := range req.Headers {
		if http.CanonicalHeaderKey(key) == AccessTokenHeader && (len(values) == 0 || values[0] == "") {
			continue
		}
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	// heimdall hands back the response together with an error on 5xx.
	httpResp, err := c.http.Do(httpReq)
	if httpResp == nil {
		return nil, newError(CauseTransport, 0, "", req.Query, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if httpResp.StatusCode >= http.StatusBadRequest {
			return nil, newError(CauseHTTP, httpResp.StatusCode, http.StatusText(httpResp.StatusCode), req.Query, err)
		}
		return nil, newError(CauseTransport, httpResp.StatusCode, "", req.Query, err)
	}

	var env responseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if httpResp.StatusCode >= http.StatusBadRequest {
			return nil, newError(CauseHTTP, httpResp.StatusCode, http.StatusText(httpResp.StatusCode), req.Query, err)
		}
		return nil, newError(CauseDecode, httpResp.StatusCode, "", req.Query, err)
	}
	if len(env.Errors) > 0 {
		first := env.Errors[0]
		return nil, newError(first.Extensions.Code, httpResp.StatusCode, first.Message, req.Query, first)
	}
	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, newError(CauseHTTP, httpResp.StatusCode, http.StatusText(httpResp.StatusCode), req.Query, nil)
	}

	return &Response{Status: httpResp.StatusCode, Data: env.Data}, nil
}

// Query runs req through f and decodes the data member into T.
func Query[T any](ctx context.Context, f Fetcher, req Request) (T, error) {
	var out T
	resp, err := f.Fetch(ctx, req)
	if err != nil {
		return out, err
	}
	if len(resp.Data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, newError(CauseDecode, 0, "", req.Query, err)
	}
	return out, nil
}
