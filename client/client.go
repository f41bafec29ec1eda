// Package client exposes a series of helper functions for
// executing http requests against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/formbody/client/download"
	"github.com/adamwoolhether/formbody/client/throttle"
	"github.com/adamwoolhether/formbody/form"
	"github.com/adamwoolhether/formbody/stream"
)

// Client wraps the std-lib *http.Client
// It constructs its own *http.Client with the default *http.Transport,
// both customizable via optional funcs.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

func Build(optFns ...Option) (*Client, error) {
	// Each client owns its http.Client so that timeout, redirect policy,
	// and the transport chain never leak into shared process state.
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Do will fire the request, and write response to the given dest object if any.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.responseBody != nil {
			d := json.NewDecoder(resp.Body)

			if settings.useJSONNum {
				d.UseNumber()
			}

			if err := d.Decode(settings.responseBody); err != nil {
				return fmt.Errorf("decoding body: %w", err)
			}
		}

		return nil
	}

	return c.exec(req, expCode, doFunc)
}

// DoForm fires the request and decodes a multipart/form-data response body
// into a *form.Data, using the boundary declared in the response's
// Content-Type header.
func (c *Client) DoForm(req *http.Request, expCode int) (*form.Data, error) {
	var fd *form.Data

	formFunc := func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading multipart body: %w", err)
		}

		fd, err = form.Decode(b, resp.Header.Get("Content-Type"))
		if err != nil {
			return fmt.Errorf("decoding multipart body: %w", err)
		}

		return nil
	}

	if err := c.exec(req, expCode, formFunc); err != nil {
		return nil, err
	}

	return fd, nil
}

// Stream fires the request and hands the response body to a [stream.Body]
// fed by a producer goroutine, returning as soon as the status line and
// headers arrive. Consumers iterate or collect the body at their own pace;
// a transport read failure mid-stream is logged and finishes the body
// early, since the body carries no error channel of its own.
func (c *Client) Stream(req *http.Request, expCode int) (*Response, error) {
	ctx, span := c.startSpan(req)

	resp, err := c.c.Do(req.WithContext(ctx))
	if err != nil {
		span.End()
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	span.SetAttributes(attribute.Int("status", resp.StatusCode))

	if resp.StatusCode != expCode {
		defer func() {
			span.End()
			if err := resp.Body.Close(); err != nil {
				c.logger.Error("failed to close response body", "error", err)
			}
		}()

		return nil, unexpectedStatus(resp)
	}

	body := stream.New()
	go func() {
		defer span.End()

		if _, err := body.ReadFrom(resp.Body); err != nil {
			c.logger.Error("streaming response body", "error", err)
		}
		body.Finish()

		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Download executes a request that's intended to stream the response body it to destPath.
// Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or cleared on failure
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, dlFunc)
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL creates a url.URL for use in Request.
// It's just a convenience method that wraps the public URL func.
func (c *Client) URL(scheme, host, path string, opts ...URLOption) *url.URL {
	return URL(scheme, host, path, opts...)
}

// exec runs the request and injected function on success after validating the expected status code.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	ctx, span := c.startSpan(req)
	defer span.End()

	resp, err := c.c.Do(req.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	span.SetAttributes(attribute.Int("status", resp.StatusCode))

	if resp.StatusCode != expCode {
		return unexpectedStatus(resp)
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// startSpan opens a span around the outgoing request and injects the trace
// context into the request headers for the remote side.
func (c *Client) startSpan(req *http.Request) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(req.Context(), "client.exec")
	span.SetAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.URL.Path),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// unexpectedStatus builds the error for a response with the wrong status
// code, capping the captured body at maxErrBodySize.
func unexpectedStatus(resp *http.Response) error {
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	statusErr := ErrUnexpectedStatusCode
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Err:        statusErr,
	}
}

// Request instantiates an *http.Request with the provided information.
// Content-Type defaults to `application/json` if unspecified via
// WithContentType or WithForm.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	if settings.form != nil && settings.body != nil {
		return nil, errors.New("cannot combine WithForm and WithPayload")
	}

	var payload bytes.Buffer
	var contentType string

	switch {
	case settings.form != nil:
		payload.Write(settings.form.Encode())
		contentType = settings.form.ContentType()

	case settings.body != nil:
		if settings.validatePayload {
			if err := Validate(settings.body); err != nil {
				return nil, fmt.Errorf("validating request payload: %w", err)
			}
		}

		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), &payload)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	if settings.contentType != nil {
		contentType = *settings.contentType
	}
	if contentType == "" {
		contentType = "application/json"
	}

	req.Header.Set("Content-Type", contentType)
	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// URL creates a url.URL for use in Request.
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return &endpoint
}
